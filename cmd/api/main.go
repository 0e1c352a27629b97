// Command api serves only the dashboard, for deployments that do not need the other tools.
package main

import "contract-frontend/cli"

func main() {
	cli.Run(cli.ServerCmd())
}
