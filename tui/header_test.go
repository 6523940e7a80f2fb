package tui_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/byteinternet/hypernode-vagrant-runner/tui"
	"github.com/stretchr/testify/assert"
)

var info = &tui.HeaderInfo{RunID: "abc123", PHP: "7.1", Image: "xenial"}

func TestRenderHeader_CompactWhenShort(t *testing.T) {
	header := tui.RenderHeader(info, 80, 10)

	lines := strings.Split(header, "\n")
	assert.Equal(t, 1, len(lines), "compact header should be a single line")
	assert.Contains(t, header, "HYPERNODE")
	assert.Contains(t, header, "VAGRANT RUNNER")
	assert.Contains(t, header, "abc123")
	assert.Contains(t, header, "php 7.1")
	assert.Contains(t, header, "xenial")
}

func TestRenderHeader_FullWhenTall(t *testing.T) {
	header := tui.RenderHeader(info, 80, 30)

	lines := strings.Split(header, "\n")
	assert.Equal(t, 4, len(lines), "full header is three wordmark rows plus the tagline")
	assert.Contains(t, lines[3], "VAGRANT RUNNER")
	assert.Contains(t, lines[3], "abc123")
}

func TestRenderHeader_CompactAtThreshold(t *testing.T) {
	compact := tui.RenderHeader(info, 80, tui.CompactHeaderThreshold-1)
	assert.Equal(t, 1, len(strings.Split(compact, "\n")))

	full := tui.RenderHeader(info, 80, tui.CompactHeaderThreshold)
	assert.Equal(t, 4, len(strings.Split(full, "\n")))
}

func TestRenderHeader_UnknownHeightIsFull(t *testing.T) {
	header := tui.RenderHeader(info, 80, 0)
	assert.Equal(t, 4, len(strings.Split(header, "\n")))
}

func TestRenderHeader_WithoutInfo(t *testing.T) {
	compact := tui.RenderHeader(nil, 80, 10)
	assert.Contains(t, compact, "HYPERNODE")
	assert.NotContains(t, compact, "php")

	full := tui.RenderHeader(nil, 80, 30)
	assert.NotContains(t, full, "php")
}

func TestRenderHeader_CompactFieldFill(t *testing.T) {
	header := tui.RenderHeader(&tui.HeaderInfo{RunID: "x", PHP: "7.0", Image: "precise"}, 80, 10)

	assert.Contains(t, header, "╱╱╱")
}

func TestRenderHeader_Print(t *testing.T) {
	t.Skip("visual check only: go test ./tui/ -run TestRenderHeader_Print -v -count=1")
	fmt.Println(tui.RenderHeader(info, 100, 30))
	fmt.Println(tui.RenderHeader(info, 100, 10))
}
