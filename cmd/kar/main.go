// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/chili/utility/kar"
)

func init() {
	currentUserName = "unknown"
	if u, err := user.Current(); err == nil && u.Name != "" {
		currentUserName = u.Name
	}
}

var (
	currentUserName string
	author          = flag.String("author", "", "Set the author of the package when compressing")
	version         = flag.Int64("version", 1, "Archive version number to create it with")
	extract         = flag.String("e", "", "Extract the given archive into the destination directory")
	list            = flag.String("l", "", "List the files of the given archive")
	compress        = flag.String("c", "", "Compress the given file/folder")
	dstFile         = flag.String("f", "out.kar", "Destination file, or directory when extracting")
	silent          = flag.Bool("s", false, "Silent")
)

func main() {
	flag.Parse()
	if *silent {
		log.SetLevel(log.WarnLevel)
	}

	var ops int
	for _, op := range []string{*extract, *list, *compress} {
		if op != "" {
			ops++
		}
	}
	if ops > 1 {
		log.Fatal("only one operation at a time")
	}

	var err error
	switch {
	case *compress != "":
		err = compressFiles()
	case *extract != "":
		err = extractFiles()
	case *list != "":
		err = listFiles()
	default:
		flag.PrintDefaults()
	}
	if err != nil {
		log.WithError(err).Fatal("kar failed")
	}
}

func compressFiles() error {
	if _, err := os.Stat(*dstFile); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	var filesToCompress []string
	err := filepath.Walk(*compress, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		filesToCompress = append(filesToCompress, path)
		return nil
	})
	if err != nil {
		return err
	}

	name := *author
	if name == "" {
		name = currentUserName
	}
	karBuilder := kar.NewBuilder(kar.Header{
		Author:      name,
		DateCreated: time.Now().Unix(),
		Version:     *version,
	})

	for _, ftc := range filesToCompress {
		rel, err := filepath.Rel(*compress, ftc)
		if err != nil || rel == "." {
			rel = filepath.Base(ftc)
		}
		if err := addFile(karBuilder, filepath.ToSlash(rel), ftc); err != nil {
			return err
		}
		log.WithField("file", rel).Debug("added")
	}

	dst, err := os.Create(*dstFile)
	if err != nil {
		return err
	}
	defer dst.Close()

	written, err := karBuilder.WriteTo(dst)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"files": karBuilder.Len(), "bytes": written, "archive": *dstFile}).Info("archive written")
	return nil
}

func addFile(b *kar.Builder, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return b.Add(name, f)
}

func extractFiles() error {
	ar, closer, err := kar.OpenFile(*extract)
	if err != nil {
		return err
	}
	defer closer.Close()

	for _, name := range ar.Names() {
		if err := extractFile(ar, name, filepath.Join(*dstFile, filepath.FromSlash(name))); err != nil {
			return err
		}
		log.WithField("file", name).Debug("extracted")
	}
	log.WithFields(log.Fields{"files": len(ar.Names()), "dir": *dstFile}).Info("archive extracted")
	return nil
}

func extractFile(ar *kar.Archive, name, path string) error {
	r, err := ar.Open(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

func listFiles() error {
	ar, closer, err := kar.OpenFile(*list)
	if err != nil {
		return err
	}
	defer closer.Close()

	header := ar.Header()
	log.WithFields(log.Fields{
		"author":  header.Author,
		"version": header.Version,
		"created": time.Unix(header.DateCreated, 0).Format(time.RFC3339),
	}).Info(*list)
	for _, name := range ar.Names() {
		entry, _ := header.Find(name)
		log.WithField("size", entry.Size).Info(name)
	}
	return nil
}
