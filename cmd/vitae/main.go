// Package main provides the vitae CLI for validating and rendering CVs.
package main

func main() {
	Execute()
}
