package main

// Example command that builds a small in-memory image folder and walks through
// the chained API: collect, split, label, add a test side, and turn the
// labels into gomlx tensors.
//
// Usage:
//   go run ./datasets/example

import (
	"fmt"
	"log"
	"math/rand"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Noofbiz/datablock/datasets"
)

func main() {
	fs := afero.NewMemMapFs()
	for _, p := range []string{
		"/pets/train/cat/1.png",
		"/pets/train/cat/2.png",
		"/pets/train/dog/3.png",
		"/pets/valid/cat/4.png",
		"/pets/valid/dog/5.png",
		"/pets/test/6.png",
	} {
		if err := fs.MkdirAll(filepath.Dir(p), 0755); err != nil {
			log.Fatalf("failed to create folder: %v", err)
		}
		if err := afero.WriteFile(fs, p, nil, 0644); err != nil {
			log.Fatalf("failed to create %s: %v", p, err)
		}
	}

	// Items stay paths; a real CreateFunc would decode the image.
	il, err := datasets.FromFolder(fs, "/pets", []string{".png"}, true, datasets.WithCache(64))
	if err != nil {
		log.Fatalf("failed to collect items: %v", err)
	}
	fmt.Println(il)

	ls, err := il.SplitByFolder("train", "valid")
	if err != nil {
		log.Fatalf("failed to split: %v", err)
	}
	if ls, err = ls.LabelFromFolder(); err != nil {
		log.Fatalf("failed to label: %v", err)
	}
	if ls, err = ls.AddTestFolder("test", []string{".png"}, nil); err != nil {
		log.Fatalf("failed to add test folder: %v", err)
	}
	fmt.Println(ls)
	fmt.Printf("Classes: %v\n", ls.Train().Classes())

	x, y, err := ls.Train().Get(2)
	if err != nil {
		log.Fatalf("failed to read item: %v", err)
	}
	fmt.Printf("Train item 2: %v -> %v\n", x, y)

	if cl, ok := ls.Train().Y().(*datasets.CategoryList); ok {
		t, err := cl.Tensor()
		if err != nil {
			log.Fatalf("failed to build label tensor: %v", err)
		}
		fmt.Printf("Train label tensor: %s\n", t.Shape())
	}

	// The same items, split at random and labeled from the file name.
	all, err := datasets.FromFolder(fs, "/pets", []string{".png"}, true)
	if err != nil {
		log.Fatalf("failed to collect items: %v", err)
	}
	random, err := all.RandomSplitByPct(0.3, rand.New(rand.NewSource(7)))
	if err != nil {
		log.Fatalf("failed to split: %v", err)
	}
	random, err = random.LabelFromRe(`^(\d)`, false)
	if err != nil {
		log.Fatalf("failed to label: %v", err)
	}
	fmt.Printf("Random split: %d train, %d valid, classes %v\n",
		random.Train().Len(), random.Valid().Len(), random.Train().Classes())
}
