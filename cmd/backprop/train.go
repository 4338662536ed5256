package main

import (
	"context"
	"flag"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/born-ml/backprop/internal/dataset"
	"github.com/born-ml/backprop/internal/nn"
	"github.com/born-ml/backprop/internal/optim"
	"github.com/born-ml/backprop/internal/serialization"
	"github.com/born-ml/backprop/internal/train"
	"github.com/pkg/errors"
)

// trainOptions holds the parsed flags of the train command.
type trainOptions struct {
	dataDir   string
	csvPath   string
	classes   int
	samples   int
	epochs    int
	batchSize int
	hidden    int
	lr        float64
	momentum  float64
	optimizer string
	seed      int64
	valRatio  float64
	load      string
	save      string
}

func parseTrainFlags(args []string) (*trainOptions, error) {
	opts := &trainOptions{}
	flags := flag.NewFlagSet("train", flag.ContinueOnError)
	flags.StringVar(&opts.dataDir, "data", "", "Directory containing MNIST IDX files")
	flags.StringVar(&opts.csvPath, "csv", "", "CSV file with label,f0,...,fN rows")
	flags.IntVar(&opts.classes, "classes", 10, "Number of classes in the CSV file")
	flags.IntVar(&opts.samples, "samples", 0, "Max samples to load (0 = all)")
	flags.IntVar(&opts.epochs, "epochs", train.DefaultEpochs, "Number of training epochs")
	flags.IntVar(&opts.batchSize, "batch", train.DefaultBatchSize, "Batch size for training")
	flags.IntVar(&opts.hidden, "hidden", 50, "Hidden layer width")
	flags.Float64Var(&opts.lr, "lr", 0.1, "Learning rate")
	flags.Float64Var(&opts.momentum, "momentum", 0, "SGD momentum")
	flags.StringVar(&opts.optimizer, "optim", "sgd", "Optimizer: sgd or adam")
	flags.Int64Var(&opts.seed, "seed", 1, "Seed for weight init and shuffling")
	flags.Float64Var(&opts.valRatio, "val", 0.2, "Fraction of samples held out for validation")
	flags.StringVar(&opts.load, "load", "", "Resume from a .bpw weight file")
	flags.StringVar(&opts.save, "save", "", "Write trained weights to this .bpw file")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if opts.dataDir != "" && opts.csvPath != "" {
		return nil, errors.New("-data and -csv are mutually exclusive")
	}
	switch opts.optimizer {
	case "sgd", "adam":
	default:
		return nil, errors.Errorf("unknown optimizer %q", opts.optimizer)
	}
	return opts, nil
}

func runTrain(args []string) error {
	opts, err := parseTrainFlags(args)
	if err != nil {
		return err
	}

	data, err := loadData(opts)
	if err != nil {
		return errors.Wrap(err, "load data")
	}
	trainSet, valSet, err := data.Split(opts.valRatio)
	if err != nil {
		return err
	}
	log.Printf("data: %d train, %d val samples, %d features, %d classes",
		trainSet.Len(), valSet.Len(), data.Features(), data.Classes)

	rng := rand.New(rand.NewSource(opts.seed))
	net := nn.NewTwoLayerNet(data.Features(), opts.hidden, data.Classes, rng)
	if opts.load != "" {
		file, err := serialization.LoadFile(opts.load)
		if err != nil {
			return errors.Wrapf(err, "load %s", opts.load)
		}
		if err := net.LoadStateDict(file.Params); err != nil {
			return errors.Wrapf(err, "restore %s", opts.load)
		}
		log.Printf("resumed from %s", opts.load)
	}

	var optimizer optim.Optimizer
	if opts.optimizer == "adam" {
		optimizer = optim.NewAdam(net.Parameters(), optim.AdamConfig{LR: opts.lr})
	} else {
		optimizer = optim.NewSGD(net.Parameters(), optim.SGDConfig{LR: opts.lr, Momentum: opts.momentum})
	}
	log.Printf("model: Affine(%d,%d) -> ReLU -> Affine(%d,%d), optimizer %s lr=%g",
		data.Features(), opts.hidden, opts.hidden, data.Classes, opts.optimizer, opts.lr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	trainer := train.NewTrainer(net, optimizer, train.Config{
		Epochs:    opts.epochs,
		BatchSize: opts.batchSize,
		Seed:      opts.seed,
	})
	history, err := trainer.Fit(ctx, trainSet, valSet)
	if err != nil {
		return err
	}
	if last, ok := history.Last(); ok {
		log.Printf("done: val_loss=%.4f val_acc=%.2f%%", last.ValLoss, last.ValAcc*100)
	}

	if opts.save == "" {
		return nil
	}
	metadata := map[string]string{
		"in":        strconv.Itoa(data.Features()),
		"hidden":    strconv.Itoa(opts.hidden),
		"out":       strconv.Itoa(data.Classes),
		"optimizer": opts.optimizer,
		"epochs":    strconv.Itoa(opts.epochs),
	}
	if err := serialization.SaveFile(opts.save, net.StateDict(), metadata); err != nil {
		return errors.Wrapf(err, "save %s", opts.save)
	}
	log.Printf("saved weights to %s", opts.save)
	return nil
}

// loadData picks the IDX directory, the CSV file, or synthetic blobs when
// neither is given.
func loadData(opts *trainOptions) (*dataset.Dataset, error) {
	switch {
	case opts.dataDir != "":
		ds, err := dataset.LoadIDX(
			filepath.Join(opts.dataDir, "train-images-idx3-ubyte"),
			filepath.Join(opts.dataDir, "train-labels-idx1-ubyte"),
			opts.samples,
		)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(err, "extract train-images-idx3-ubyte and train-labels-idx1-ubyte into -data, or omit -data for synthetic samples")
		}
		return ds, err
	case opts.csvPath != "":
		f, err := os.Open(opts.csvPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return dataset.LoadCSV(f, opts.classes, opts.samples)
	default:
		n := opts.samples
		if n == 0 {
			n = 1000
		}
		log.Printf("no -data or -csv given, using %d synthetic samples", n)
		return dataset.Synthetic(n, 4, 3, rand.New(rand.NewSource(opts.seed))), nil
	}
}
