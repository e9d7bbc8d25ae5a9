package main

import (
	"bytes"
	"flag"
	"log"
	"os"

	"earlyboot/src/tools/sysdec"
)

var outfile = flag.String("o", "", "output filename")
var dump = flag.Bool("d", false, "dump human readable version instead of generating code")
var pkg = flag.String("p", "main", "package to emit generated code into")
var outtags = flag.String("b", "", "output build tags (copied verbatim to output)")
var list = flag.Bool("l", false, "list the catalogs available")

func main() {
	flag.Parse()
	if *list {
		for _, p := range sysdec.Catalogs() {
			log.Printf("%s: %d registers", p.Name, len(p.Registers))
		}
		return
	}
	if flag.NArg() != 1 {
		log.Fatalf("usage sysdec [-d] [-p <pkg>] [-b <tags>] [-o <outputfile>] <catalog name>")
	}
	p, err := sysdec.Find(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	var output bytes.Buffer
	if *dump {
		err = sysdec.Dump(&output, p)
	} else {
		err = sysdec.GenerateConstants(&output, p, sysdec.UserOptions{Pkg: *pkg, OutTags: *outtags})
	}
	if err != nil {
		log.Fatalf("%s: %v", p.Name, err)
	}
	if *outfile == "" {
		os.Stdout.Write(output.Bytes())
		return
	}
	if err := os.WriteFile(*outfile, output.Bytes(), 0o644); err != nil {
		log.Fatalf("writing %s: %v", *outfile, err)
	}
	log.Printf("wrote %s constants to %s", p.Name, *outfile)
}
