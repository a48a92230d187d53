package main

import "os"

// rigtune: gaming optimization dashboard API over a simulated machine.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
