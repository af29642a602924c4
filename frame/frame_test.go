// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		typ     uint64
		payload []byte
	}{
		{1, nil},
		{48, []byte("hello")},
		{200, bytes.Repeat([]byte{0x42}, 4096)},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		if err := Write(&buf, c.typ, c.payload); err != nil {
			t.Fatalf("Write(%d): %v", c.typ, err)
		}
		got, err := Read(&buf)
		if err != nil {
			t.Fatalf("Read(%d): %v", c.typ, err)
		}
		if got.Type != c.typ {
			t.Errorf("Type = %d, want %d", got.Type, c.typ)
		}
		if diff := cmp.Diff(c.payload, got.Payload); diff != "" && len(c.payload) != 0 {
			t.Errorf("Payload mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestReadBadPreamble(t *testing.T) {
	buf := bytes.NewReader([]byte{0x01, 0x00, 0x00})
	if _, err := Read(buf); err == nil {
		t.Fatal("expected error for non-zero preamble")
	}
}

func TestReadShort(t *testing.T) {
	// Preamble present but the rest of the frame never arrives.
	buf := bytes.NewReader([]byte{0x00})
	_, err := Read(buf)
	if !errors.Is(err, ShortRead) {
		t.Fatalf("Read() = %v, want ShortRead", err)
	}
}

func TestReadEOFBeforePreamble(t *testing.T) {
	buf := bytes.NewReader(nil)
	_, err := Read(buf)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("Read() = %v, want io.EOF", err)
	}
}
