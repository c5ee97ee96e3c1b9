/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Wed Apr 18 13:41:02 2018 mstenber
 * Last modified: Wed Apr 18 14:28:51 2018 mstenber
 * Edit time:     30 min
 *
 */

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf"
	"github.com/fingon/go-mvsf/storage"
	"github.com/fingon/go-mvsf/storage/factory"
)

// sameFile reports whether output names the same file (or database
// directory) as input. A missing output is never the same.
func sameFile(input, output string) (bool, error) {
	ifi, err := os.Stat(input)
	if err != nil {
		return false, errors.Wrapf(err, "cannot stat %s", input)
	}
	ofi, err := os.Stat(output)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "cannot stat %s", output)
	}
	return os.SameFile(ifi, ofi), nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n\n%s -input <input.img> -output <output.img> -file <filename>\n", os.Args[0])
		flag.PrintDefaults()
	}
	input := flag.String("input", "", "Image to read")
	output := flag.String("output", "", "Image to write")
	filename := flag.String("file", "", "File to add")
	name := flag.String("name", "", "Name in the root directory (default: -file as given)")
	strict := flag.Bool("strict", false, "Verify checksums of the input before changing anything")
	backendp := flag.String("backend", factory.DefaultBackend,
		fmt.Sprintf("Backend to use (possible: %v)", factory.List()))
	password := flag.String("password", "", "Password (key-value backends only)")
	salt := flag.String("salt", "", "Salt")
	compress := flag.Bool("compress", false, "Compress stored blocks (key-value backends only)")
	flag.Parse()

	if *input == "" || *output == "" || *filename == "" {
		flag.Usage()
		os.Exit(1)
	}
	log.SetFlags(0)
	if *name == "" {
		*name = *filename
	}
	if err := mvsf.ValidateName(*name); err != nil {
		log.Fatalf("Error: %v", err)
	}
	same, err := sameFile(*input, *output)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if same {
		log.Fatalf("Error: input and output must differ")
	}

	f, err := os.Open(*filename)
	if err != nil {
		log.Fatalf("Error: cannot open %s: %v", *filename, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		log.Fatalf("Error: cannot stat %s: %v", *filename, err)
	}

	open := func(path string, create bool) storage.Backend {
		beconf := storage.BackendConfiguration{Path: path, Create: create, ReadOnly: !create}
		be, err := factory.New(factory.Configuration{BackendConfiguration: beconf,
			BackendName: *backendp, Password: *password, Salt: *salt,
			Compress: *compress})
		if err != nil {
			log.Fatalf("Error: cannot open %s: %v", path, err)
		}
		return be
	}
	src := open(*input, false)
	dst := open(*output, true)

	res, err := mvsf.Insert(dst, src, *name, f, fi.Size(), mvsf.InsertOptions{Strict: *strict})
	src.Close()
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("File '%s' added successfully to inode %d\n", *name, res.Ino)
	fmt.Printf("File size: %d bytes, %d blocks\n", res.Size, len(res.Blocks))
	fmt.Printf("Output saved to: %s\n", *output)
}
