// drmtool is a small operator utility for inspecting DRM coordination
// state on a device: the content hash of the persisted store and the
// well-known revocation package.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/jvbreda/drmcore/system"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "hash":
		err = runHash(args[1:])
	case "revcheck":
		err = runRevCheck(args[1:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "drmtool: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  drmtool hash <store-file>       print the SHA-256 of the DRM store file
  drmtool revcheck [package]      check the revocation package (default %s)
`, system.DefaultRevocationListFile)
}

func runHash(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("hash takes exactly one store file argument")
	}

	digest := make([]byte, system.StoreHashSize)
	if err := system.StoreHash(args[0], digest); err != nil {
		return err
	}
	fmt.Printf("%s  %s\n", hex.EncodeToString(digest), args[0])
	return nil
}

func runRevCheck(args []string) error {
	path := system.DefaultRevocationListFile
	if len(args) > 0 {
		path = args[0]
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		// Absence is the normal state on most devices.
		fmt.Printf("no revocation package at %s\n", path)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("revocation package at %s: %d bytes, modified %s\n",
		path, info.Size(), info.ModTime().Format("2006-01-02 15:04:05"))
	return nil
}
