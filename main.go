package main

import (
	"github.com/asif-kamal/storefront/cmd"
)

func main() {
	cmd.Start()
}
