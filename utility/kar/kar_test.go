// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/devblok/chili/utility/kar"
)

var (
	testString1 = "idunvovkjnreovmegihjbrqlkmfrjnb"
	testString2 = "idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"
)

func buildArchive(t *testing.T) []byte {
	builder := kar.NewBuilder(kar.Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	if err := builder.Add("test", strings.NewReader(testString1)); err != nil {
		t.Fatal(err)
	}
	if err := builder.Add("test2", strings.NewReader(testString2)); err != nil {
		t.Fatal(err)
	}

	buf := bytes.NewBuffer([]byte{})
	if written, err := builder.WriteTo(buf); err != nil {
		t.Fatal(err)
	} else {
		t.Logf("written %d", written)
	}
	return buf.Bytes()
}

func TestCreateAndRead(t *testing.T) {
	ar, err := kar.Open(bytes.NewReader(buildArchive(t)))
	if err != nil {
		t.Fatal(err)
	}

	f, err := ar.Open("test2")
	if err != nil {
		t.Fatal(err)
	}
	if f.Size() != int64(len(testString2)) {
		t.Errorf("bad size %d", f.Size())
	}

	result := make([]byte, len(testString2))
	if _, err := io.ReadFull(f, result); err != nil {
		t.Fatal(err)
	}

	if strings.Compare(string(result), testString2) != 0 {
		t.Error("test string does not match up")
	}
}

func TestCreateAndReadAll(t *testing.T) {
	ar, err := kar.Open(bytes.NewReader(buildArchive(t)))
	if err != nil {
		t.Fatal(err)
	}

	f, err := ar.ReadAll("test")
	if err != nil {
		t.Fatal(err)
	}

	if strings.Compare(string(f), testString1) != 0 {
		t.Error("test string does not match up")
	}

	names := ar.Names()
	if len(names) != 2 || names[0] != "test" || names[1] != "test2" {
		t.Errorf("unexpected names: %v", names)
	}

	if ar.Header().Author != "devblok" {
		t.Errorf("unexpected author: %s", ar.Header().Author)
	}
}

func TestOpenMissing(t *testing.T) {
	ar, err := kar.Open(bytes.NewReader(buildArchive(t)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ar.ReadAll("nope"); !errors.Is(err, kar.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestOpenNotArchive(t *testing.T) {
	if _, err := kar.Open(strings.NewReader("this is not an archive at all")); err != kar.ErrFileFormat {
		t.Fatalf("expected ErrFileFormat, got: %v", err)
	}
	if _, err := kar.Open(strings.NewReader("KA")); err != kar.ErrFileFormat {
		t.Fatalf("expected ErrFileFormat, got: %v", err)
	}
}
