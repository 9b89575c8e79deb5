package main

import "github.com/policydesk/polgw/cmd"

func main() {
	cmd.Execute()
}
