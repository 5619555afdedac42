// mockfactory CLI - generate related fixture records from factory manifests
package main

import "github.com/getmockd/mockfactory/pkg/cli"

func main() {
	cli.Execute()
}
