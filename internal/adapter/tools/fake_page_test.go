package tools

import (
	"context"
	"errors"
	"time"

	"webtools/internal/application/port/output"
	"webtools/internal/domain/entity"
	"webtools/internal/infrastructure/logger"
)

var errNoElement = errors.New("element not found")

type fakeElement struct {
	text   string
	value  string
	html   string
	region string
	attrs  map[string]string
}

// fakePage is an in-memory DOM keyed by selector that records every mutation.
type fakePage struct {
	url      string
	elements map[string]*fakeElement

	hasErr  error
	readErr error
	waitErr error

	clicks      []string
	clears      []string
	inputEvents int
	hashes      []string
	waits       []string
}

var _ output.PagePort = (*fakePage)(nil)

func newFakePage(url string) *fakePage {
	return &fakePage{url: url, elements: map[string]*fakeElement{}}
}

func (p *fakePage) with(selector string, el *fakeElement) *fakePage {
	p.elements[selector] = el
	return p
}

func (p *fakePage) mutations() int {
	return len(p.clicks) + len(p.clears) + p.inputEvents + len(p.hashes)
}

func (p *fakePage) el(selector string) (*fakeElement, error) {
	if p.readErr != nil {
		return nil, p.readErr
	}
	el, ok := p.elements[selector]
	if !ok {
		return nil, errNoElement
	}
	return el, nil
}

func (p *fakePage) Location(context.Context) (entity.PageLocation, error) {
	return entity.ParseLocation(p.url)
}

func (p *fakePage) Has(_ context.Context, selector string) (bool, error) {
	if p.hasErr != nil {
		return false, p.hasErr
	}
	_, ok := p.elements[selector]
	return ok, nil
}

func (p *fakePage) Count(_ context.Context, selector string) (int, error) {
	if _, ok := p.elements[selector]; ok {
		return 1, nil
	}
	return 0, nil
}

func (p *fakePage) Text(_ context.Context, selector string) (string, error) {
	el, err := p.el(selector)
	if err != nil {
		return "", err
	}
	return el.text, nil
}

func (p *fakePage) Value(_ context.Context, selector string) (string, error) {
	el, err := p.el(selector)
	if err != nil {
		return "", err
	}
	return el.value, nil
}

func (p *fakePage) HTML(_ context.Context, selector string) (string, error) {
	el, err := p.el(selector)
	if err != nil {
		return "", err
	}
	return el.html, nil
}

func (p *fakePage) RegionText(_ context.Context, selector string) (string, error) {
	el, err := p.el(selector)
	if err != nil {
		return "", err
	}
	return el.region, nil
}

func (p *fakePage) Attribute(_ context.Context, selector, name string) (string, bool, error) {
	el, err := p.el(selector)
	if err != nil {
		return "", false, err
	}
	v, ok := el.attrs[name]
	return v, ok, nil
}

func (p *fakePage) Click(_ context.Context, selector string) error {
	if _, err := p.el(selector); err != nil {
		return err
	}
	p.clicks = append(p.clicks, selector)
	return nil
}

func (p *fakePage) ClearEditable(_ context.Context, selector string) error {
	el, err := p.el(selector)
	if err != nil {
		return err
	}
	el.html = "<p><br></p>"
	el.text = ""
	p.clears = append(p.clears, selector)
	p.inputEvents++
	return nil
}

func (p *fakePage) SetHash(_ context.Context, hash string) error {
	p.hashes = append(p.hashes, hash)
	return nil
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.url = url
	return nil
}

func (p *fakePage) WaitFor(_ context.Context, selector string, _ time.Duration) error {
	p.waits = append(p.waits, selector)
	return p.waitErr
}

func (p *fakePage) Screenshot(context.Context) (*entity.Screenshot, error) {
	return &entity.Screenshot{Format: "jpeg"}, nil
}

func (p *fakePage) Close() {}

func testDeps(page *fakePage) Deps {
	return Deps{
		Page:   page,
		Logger: logger.Nop(),
		Settle: Settle{Delay: time.Millisecond, Timeout: 10 * time.Millisecond},
	}
}
