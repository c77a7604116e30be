// Command seed fills a tenant with demo CRM data or imports workflow rules.
//
//	seed data --tenant <uuid> --customers 50 --leads 100 --deals 40
//	seed rules --tenant <uuid> --file rules.yaml
//	seed admin
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
