// cmd/catalogctl/main.go
package main

func main() {
	Execute()
}
