/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Wed Apr 18 13:02:11 2018 mstenber
 * Last modified: Wed Apr 18 13:40:30 2018 mstenber
 * Edit time:     21 min
 *
 */

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fingon/go-mvsf"
	"github.com/fingon/go-mvsf/storage"
	"github.com/fingon/go-mvsf/storage/factory"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n\n%s -image <out.img> -size-kib <180..4096> -inodes <128..512>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Size must be a multiple of 4.\n\n")
		flag.PrintDefaults()
	}
	image := flag.String("image", "", "Image to create")
	sizeKib := flag.Uint64("size-kib", 0, "Image size in KiB")
	inodes := flag.Uint64("inodes", 0, "Number of inodes")
	backendp := flag.String("backend", factory.DefaultBackend,
		fmt.Sprintf("Backend to use (possible: %v)", factory.List()))
	password := flag.String("password", "", "Password (key-value backends only)")
	salt := flag.String("salt", "", "Salt")
	compress := flag.Bool("compress", false, "Compress stored blocks (key-value backends only)")
	flag.Parse()

	if *image == "" || *sizeKib == 0 || *inodes == 0 {
		flag.Usage()
		os.Exit(1)
	}
	log.SetFlags(0)

	g, err := mvsf.NewGeometry(*sizeKib, *inodes)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	beconf := storage.BackendConfiguration{Path: *image, Create: true}
	be, err := factory.New(factory.Configuration{BackendConfiguration: beconf,
		BackendName: *backendp, Password: *password, Salt: *salt,
		Compress: *compress})
	if err != nil {
		log.Fatalf("Error: cannot create %s: %v", *image, err)
	}
	err = mvsf.Format(be, g, time.Now())
	if cerr := be.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("Filesystem image '%s' created successfully.\n", *image)
	fmt.Printf("Total blocks: %d\n", g.TotalBlocks)
	fmt.Printf("Inode count: %d\n", g.InodeCount)
	fmt.Printf("Data region starts at block: %d\n", g.DataRegionStart)
}
