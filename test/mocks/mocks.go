// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/catalog_source.go -destination=catalog_source_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/listeners.go -destination=listeners_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/shelf_repository.go -destination=shelf_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/catalog_service.go -destination=catalog_service_mock.go -package=mocks
