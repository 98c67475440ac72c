// Command predict classifies one set of readings from the command line:
//
//	predict -config config.yaml 50 80 1 40 20 60 25 55 0 3
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strings"

	"airquality/config"
	aqhttp "airquality/http"
	"airquality/i18n"
	"airquality/ml"
	"airquality/pipeline"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: predict [-config path] %s\n", strings.Join(ml.FeatureNames(), " "))
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	messages, err := i18n.NewBundle(cfg.I18n.Language)
	if err != nil {
		log.Fatalf("failed to build message catalog: %v", err)
	}
	tr := messages.Translator(messages.Default())

	model, err := ml.LoadModel(ml.LoadOptions{
		Type:         cfg.Model.Type,
		Path:         cfg.Model.Path,
		MetadataPath: cfg.Model.MetadataPath,
		ONNX: ml.ONNXOptions{
			SharedLibraryPath: cfg.Model.RuntimeLibrary,
			IntraOpThreads:    cfg.Model.IntraOpThreads,
		},
	})
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}

	err = run(context.Background(), flag.Args(), ml.NewPredictor(model), tr, os.Stdout)
	model.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var errUsage = errors.New("expected one value per feature")

func run(ctx context.Context, args []string, predictor *ml.Predictor, tr *i18n.Translator, out io.Writer) error {
	if len(args) != ml.NumFeatures {
		return fmt.Errorf("%w (%d), got %d", errUsage, ml.NumFeatures, len(args))
	}

	form := url.Values{}
	for i, arg := range args {
		form.Set(pipeline.InputName(i), arg)
	}

	sub, err := pipeline.ParseSubmission(form)
	if err != nil {
		return errors.New(tr.T(i18n.MalformedInput))
	}
	if v := sub.Validate(pipeline.DefaultLimits()); v != nil {
		return errors.New(tr.T(i18n.BoundViolation, v.Field, v.Side.Operator(), v.Bound.String()))
	}

	outcome := predictor.Predict(ctx, sub.Features)
	if !outcome.OK() {
		return errors.New(tr.T(i18n.SystemError, outcome.Err.Error()))
	}

	fmt.Fprintln(out, tr.T(i18n.InputEcho), aqhttp.FormatReadings(sub.Features))
	fmt.Fprintln(out, tr.T(i18n.PredictedLabel), tr.T(outcome.Result.Label), ml.Indicator(outcome.Result.Class))
	fmt.Fprintln(out, tr.T(i18n.Probabilities), aqhttp.FormatProbabilities(outcome.Result.Probabilities))
	return nil
}
