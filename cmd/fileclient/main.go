package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/xtaci/sktun/fileclient"
	"github.com/xtaci/sktun/hashkind"
	"github.com/xtaci/sktun/sketch"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <binary-tuple-file> <threads>\n", os.Args[0])
		os.Exit(1)
	}

	path := os.Args[1]
	threads, err := strconv.Atoi(os.Args[2])
	if err != nil || threads < 1 {
		fmt.Fprintf(os.Stderr, "invalid threads value %q\n", os.Args[2])
		os.Exit(1)
	}

	result, err := fileclient.Collect(path, threads, hashkind.Murmur3_128, sketch.ReferenceGeometry)
	if err != nil {
		log.Printf("%+v\n", err)
		os.Exit(1)
	}

	fmt.Println(result.ItemCount)
	fmt.Println(result.Cardinality)
}
