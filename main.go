package main

import "contract-frontend/cli"

func main() {
	cli.Run(cli.RootCmd())
}
