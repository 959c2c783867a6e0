package entity

import (
	"net/url"
	"strings"
)

// PageLocation is the page context bindings are filtered against.
type PageLocation struct {
	URL  string
	Host string
	Path string
	Hash string
}

func ParseLocation(raw string) (PageLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return PageLocation{}, err
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return PageLocation{
		URL:  raw,
		Host: strings.ToLower(u.Hostname()),
		Path: path,
		Hash: u.Fragment,
	}, nil
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
