package main

// Command datablock indexes a dataset folder the way a training job would see
// it: it collects the items, splits them into train and valid, labels both
// sides, and prints the class distribution. It can also write a manifest CSV
// of every labeled item and a bar chart of the class counts.
//
// Usage:
//   go run ./cmd/datablock data/pets --split-by-folder
//   go run ./cmd/datablock data/planet --csv train.csv --label-col tags --delim " "

import (
	"math/rand"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/plot/vg"

	"github.com/Noofbiz/datablock/datasets"
	"github.com/Noofbiz/datablock/report"
)

type args struct {
	Path string `arg:"positional,required" help:"dataset root folder"`

	Extensions []string `help:"file extensions to collect in folder mode"`
	CSV        string   `help:"CSV file under path listing items and labels; 'auto' picks the first CSV found"`
	ItemCol    string   `help:"CSV column holding items (default: first column)"`
	LabelCol   string   `help:"CSV column holding labels (default: second column)"`
	ValidCol   string   `help:"CSV column flagging valid rows; overrides the random split"`
	Delim      string   `help:"split labels on this character into label sets"`

	SplitByFolder bool    `help:"split on the train/valid folders instead of randomly"`
	TrainFolder   string  `help:"train folder name"`
	ValidFolder   string  `help:"valid folder name"`
	ValidPct      float64 `help:"share of items put in valid by the random split"`
	Seed          int64   `help:"random split seed"`

	LabelRe    string `help:"label with the first capture group of this pattern instead of the parent folder"`
	TestFolder string `help:"folder under path added as the test side"`

	Manifest string `help:"write a split,item,label CSV here"`
	Plot     string `help:"write a class count PNG here"`
	Verbose  bool   `help:"log debug events"`
}

func (args) Description() string {
	return "datablock collects, splits and labels a dataset and reports its classes"
}

func newLogger(verbose bool) *zap.Logger {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.RFC3339TimeEncoder
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(config), zapcore.Lock(os.Stderr), level)
	return zap.New(core, zap.AddCaller())
}

func column(name string, pos int) datasets.Column {
	if name == "" {
		return datasets.Col(pos)
	}
	return datasets.ColName(name)
}

func main() {
	a := args{
		Extensions:  []string{".png", ".jpg", ".jpeg"},
		TrainFolder: "train",
		ValidFolder: "valid",
		ValidPct:    0.2,
		Seed:        time.Now().UnixNano(),
	}
	arg.MustParse(&a)

	logger := newLogger(a.Verbose)
	defer logger.Sync()
	datasets.SetLogger(logger)

	fs := afero.NewOsFs()
	ls, err := build(fs, a)
	if err != nil {
		logger.Fatal("failed to build item lists", zap.String("path", a.Path), zap.Error(err))
	}

	if a.TestFolder != "" {
		if _, err := ls.AddTestFolder(a.TestFolder, a.Extensions, nil); err != nil {
			logger.Fatal("failed to add test folder", zap.String("folder", a.TestFolder), zap.Error(err))
		}
	}

	summary, err := report.Summarize(ls)
	if err != nil {
		logger.Fatal("failed to summarize", zap.Error(err))
	}
	if err := summary.Write(os.Stdout); err != nil {
		logger.Fatal("failed to print summary", zap.Error(err))
	}

	if a.Manifest != "" {
		if err := writeManifest(fs, a.Manifest, ls); err != nil {
			logger.Fatal("failed to write manifest", zap.String("out", a.Manifest), zap.Error(err))
		}
		logger.Info("wrote manifest", zap.String("out", a.Manifest))
	}

	if a.Plot != "" {
		p, err := report.PlotClassCounts(summary)
		if err != nil {
			logger.Fatal("failed to plot classes", zap.Error(err))
		}
		if err := ensureDir(fs, filepath.Dir(a.Plot)); err != nil {
			logger.Fatal("failed to create plot folder", zap.Error(err))
		}
		if err := p.Save(8*vg.Inch, 6*vg.Inch, a.Plot); err != nil {
			logger.Fatal("failed to save plot", zap.String("out", a.Plot), zap.Error(err))
		}
		logger.Info("wrote plot", zap.String("out", a.Plot))
	}
}

// build collects, splits and labels the dataset described by a.
func build(fs afero.Fs, a args) (*datasets.ItemLists, error) {
	var opts []datasets.LabelOption
	if a.Delim != "" {
		r, size := utf8.DecodeRuneInString(a.Delim)
		if size != len(a.Delim) {
			return nil, errors.Errorf("delimiter %q must be a single character", a.Delim)
		}
		opts = append(opts, datasets.WithDelimiter(r))
	}

	if a.CSV != "" {
		return buildFromCSV(fs, a, opts)
	}

	il, err := datasets.FromFolder(fs, a.Path, a.Extensions, true)
	if err != nil {
		return nil, err
	}
	ls, err := split(il, a)
	if err != nil {
		return nil, err
	}
	if a.LabelRe != "" {
		return ls.LabelFromRe(a.LabelRe, false, opts...)
	}
	return ls.LabelFromFolder(opts...)
}

func buildFromCSV(fs afero.Fs, a args, opts []datasets.LabelOption) (*datasets.ItemLists, error) {
	name := a.CSV
	if name == "auto" {
		found, err := datasets.FindCSV(fs, a.Path)
		if err != nil {
			return nil, err
		}
		name = filepath.Base(found)
	}
	itemCol, labelCol := column(a.ItemCol, 0), column(a.LabelCol, 1)
	if a.ValidCol != "" {
		return datasets.ItemListsFromCSV(fs, a.Path, name, itemCol, labelCol, datasets.ColName(a.ValidCol), true, opts...)
	}
	il, err := datasets.FromCSV(fs, a.Path, name, itemCol, true)
	if err != nil {
		return nil, err
	}
	ls, err := split(il, a)
	if err != nil {
		return nil, err
	}
	return ls.LabelFromDF([]datasets.Column{labelCol}, opts...)
}

func split(il *datasets.ItemList, a args) (*datasets.ItemLists, error) {
	if a.SplitByFolder {
		return il.SplitByFolder(a.TrainFolder, a.ValidFolder)
	}
	return il.RandomSplitByPct(a.ValidPct, rand.New(rand.NewSource(a.Seed)))
}

func writeManifest(fs afero.Fs, path string, ls *datasets.ItemLists) error {
	if err := ensureDir(fs, filepath.Dir(path)); err != nil {
		return err
	}
	f, err := fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()
	if err := datasets.WriteManifest(f, ls); err != nil {
		return err
	}
	return f.Close()
}

func ensureDir(fs afero.Fs, path string) error {
	if path == "" || path == "." {
		return nil
	}
	return fs.MkdirAll(path, 0755)
}
