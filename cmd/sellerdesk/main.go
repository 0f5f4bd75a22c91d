package main

import "github.com/sellerdesk/sellerdesk/cmd/sellerdesk/cmd"

func main() {
	cmd.Execute()
}
