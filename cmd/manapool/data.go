package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
	"github.com/hashicorp/go-cleanhttp"
	xzReader "github.com/xi2/xz"
)

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var err error
	for i := len(rc.closers) - 1; i >= 0; i-- {
		cerr := rc.closers[i].Close()
		if err == nil {
			err = cerr
		}
	}
	return err
}

// loadData opens a local path or an http(s) link, decompressing it
// according to its extension.
func loadData(pathOpt string) (io.ReadCloser, error) {
	var reader io.ReadCloser

	// Only links are parsed, local names may hold a literal %
	name := pathOpt
	if strings.HasPrefix(pathOpt, "http://") || strings.HasPrefix(pathOpt, "https://") {
		u, err := url.Parse(pathOpt)
		if err != nil {
			return nil, err
		}
		resp, err := cleanhttp.DefaultClient().Get(pathOpt)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != 200 {
			resp.Body.Close()
			return nil, fmt.Errorf("cannot download %s: %s", pathOpt, resp.Status)
		}

		reader = resp.Body
		name = u.Path
	} else {
		file, err := os.Open(pathOpt)
		if err != nil {
			return nil, err
		}

		reader = file
	}

	switch {
	case strings.HasSuffix(name, ".xz"):
		xzr, err := xzReader.NewReader(reader, 0)
		if err != nil {
			reader.Close()
			return nil, err
		}
		return &readCloser{Reader: xzr, closers: []io.Closer{reader}}, nil
	case strings.HasSuffix(name, ".bz2"):
		bz2Reader, err := bzip2.NewReader(reader, nil)
		if err != nil {
			reader.Close()
			return nil, err
		}
		return &readCloser{Reader: bz2Reader, closers: []io.Closer{reader, bz2Reader}}, nil
	case strings.HasSuffix(name, ".gz"):
		zipReader, err := gzip.NewReader(reader)
		if err != nil {
			reader.Close()
			return nil, err
		}
		return &readCloser{Reader: zipReader, closers: []io.Closer{reader, zipReader}}, nil
	case strings.HasSuffix(name, ".br"):
		return &readCloser{Reader: brotli.NewReader(reader), closers: []io.Closer{reader}}, nil
	}

	return reader, nil
}
