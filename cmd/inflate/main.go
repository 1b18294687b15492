// Command inflate decodes GZIP and raw DEFLATE streams from the
// command line: a thin flag-parsing wrapper around the library, with
// no logic of its own beyond wiring files together and reporting
// errors.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/coreos/pkg/capnslog"

	"github.com/deflatelib/deflate"
	dgzip "github.com/deflatelib/deflate/gzip"
	"github.com/deflatelib/deflate/internal/golden"
)

var log = capnslog.NewPackageLogger("github.com/deflatelib/deflate", "cmd/inflate")

func main() {
	var (
		inputPattern = flag.String("i", "", "input file or glob pattern (e.g. \"testdata/**/*.gz\")")
		outputFile   = flag.String("o", "", "output file (single-input mode only)")
		outDir       = flag.String("outdir", "", "output directory (glob mode; required when -i matches more than one file)")
		raw          = flag.Bool("raw", false, "treat input as a raw DEFLATE stream instead of GZIP")
		logLevel     = flag.String("log-level", "NOTICE", "capnslog level: CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG, TRACE")
		verifyPath   = flag.String("verify", "", "path to a golden.yaml manifest to verify instead of decoding -i")
	)
	flag.Parse()

	if err := configureLogging(*logLevel); err != nil {
		log.Fatalf("invalid -log-level: %v", err)
	}

	if *verifyPath != "" {
		if err := runVerify(*verifyPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *inputPattern == "" {
		flag.PrintDefaults()
		os.Exit(2)
	}

	matches, err := doublestar.FilepathGlob(*inputPattern)
	if err != nil {
		log.Fatalf("bad glob pattern %q: %v", *inputPattern, err)
	}
	if len(matches) == 0 {
		matches = []string{*inputPattern} // plain path, not a glob
	}

	if len(matches) == 1 {
		if err := decodeOne(matches[0], *outputFile, *raw); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *outDir == "" {
		log.Fatalf("%d files matched %q; -outdir is required for batch decode", len(matches), *inputPattern)
	}
	for _, in := range matches {
		out := filepath.Join(*outDir, filepath.Base(trimCompressedSuffix(in)))
		if err := decodeOne(in, out, *raw); err != nil {
			log.Errorf("%s: %v", in, err)
		}
	}
}

func configureLogging(level string) error {
	lvl, err := capnslog.ParseLevel(level)
	if err != nil {
		return err
	}
	capnslog.SetGlobalLogLevel(lvl)
	capnslog.SetFormatter(capnslog.NewStringFormatter(os.Stderr))
	return nil
}

func decodeOne(inPath, outPath string, raw bool) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	if outPath == "" {
		outPath = trimCompressedSuffix(inPath)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if raw {
		log.Infof("decoding raw DEFLATE %s -> %s", inPath, outPath)
		return deflate.Decompress(in, out)
	}

	log.Infof("decoding GZIP %s -> %s", inPath, outPath)
	r, err := dgzip.NewReader(in)
	if err != nil {
		return err
	}
	defer r.Close()
	if r.Name != "" {
		log.Debugf("%s: embedded name %q, modtime %v, os %s", inPath, r.Name, r.ModTime, r.OSName)
	}
	_, err = io.Copy(out, r)
	return err
}

func trimCompressedSuffix(path string) string {
	switch filepath.Ext(path) {
	case ".gz", ".deflate":
		return path[:len(path)-len(filepath.Ext(path))]
	default:
		return path + ".out"
	}
}

func runVerify(manifestPath string) error {
	m, err := golden.Load(manifestPath)
	if err != nil {
		return err
	}
	dir := filepath.Dir(manifestPath)
	results, err := golden.VerifyAll(context.Background(), dir, m)
	if err != nil {
		return err
	}
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			log.Errorf("FAIL %s: %v", res.Fixture.Name, res.Err)
			continue
		}
		log.Infof("ok   %s", res.Fixture.Name)
	}
	if failed > 0 {
		return fmt.Errorf("%d/%d golden fixtures failed", failed, len(results))
	}
	return nil
}
