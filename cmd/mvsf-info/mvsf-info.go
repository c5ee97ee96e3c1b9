/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Wed Apr 18 15:30:10 2018 mstenber
 * Last modified: Wed Apr 18 15:48:02 2018 mstenber
 * Edit time:     14 min
 *
 */

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fingon/go-mvsf"
	"github.com/fingon/go-mvsf/storage"
	"github.com/fingon/go-mvsf/storage/factory"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n\n%s -image <img>\n", os.Args[0])
		flag.PrintDefaults()
	}
	image := flag.String("image", "", "Image to describe")
	format := flag.String("format", "json",
		fmt.Sprintf("Output format (possible: %v)", mvsf.InfoFormats))
	check := flag.Bool("check", false, "Verify checksums and references too")
	backendp := flag.String("backend", factory.DefaultBackend,
		fmt.Sprintf("Backend to use (possible: %v)", factory.List()))
	password := flag.String("password", "", "Password (key-value backends only)")
	salt := flag.String("salt", "", "Salt")
	compress := flag.Bool("compress", false, "Stored blocks are compressed (key-value backends only)")
	flag.Parse()

	if *image == "" {
		flag.Usage()
		os.Exit(1)
	}
	log.SetFlags(0)

	beconf := storage.BackendConfiguration{Path: *image, ReadOnly: true}
	be, err := factory.New(factory.Configuration{BackendConfiguration: beconf,
		BackendName: *backendp, Password: *password, Salt: *salt,
		Compress: *compress})
	if err != nil {
		log.Fatalf("Error: cannot open %s: %v", *image, err)
	}
	defer be.Close()

	img, err := mvsf.Open(be)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if *check {
		if err = mvsf.Check(img); err != nil {
			log.Fatalf("Error: %v", err)
		}
	}
	info, err := mvsf.Describe(img)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if err = mvsf.WriteInfo(os.Stdout, info, *format); err != nil {
		log.Fatalf("Error: %v", err)
	}
	if *format == "json" {
		fmt.Println()
	}
}
