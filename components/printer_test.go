package components

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostingsPrinter(t *testing.T) {
	var buf bytes.Buffer
	pp := NewPostingsPrinter(&buf)

	go func() {
		defer close(pp.In)
		for _, l := range testLists[:2] {
			pp.In <- l
		}
	}()
	go pp.Run()

	var done []interface{}
	for d := range pp.OutDone {
		done = append(done, d)
	}

	assert.Len(t, done, 1)
	assert.Equal(t, testLists[0].String()+"\n"+testLists[1].String()+"\n", buf.String())
}
