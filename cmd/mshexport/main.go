package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/binzume/mshexport/converter"
	"github.com/binzume/mshexport/msh"
	"github.com/binzume/mshexport/scene"
	"github.com/binzume/mshexport/uvlayout"
)

type options struct {
	output       string
	objectName   string
	scale        float64
	rotationX    float64
	uvLayer      string
	uvLayoutPath string
	uvLayoutSize int
	configFile   string
	info         bool
}

// applyFlags overrides conf with the flags given on the command line.
func applyFlags(conf *converter.ExportConfig, opts *options, set map[string]bool) {
	if set["o"] {
		conf.Output = opts.output
	}
	if set["object"] {
		conf.ObjectName = opts.objectName
	}
	if set["scale"] {
		conf.Scale = float32(opts.scale)
	}
	if set["rotx"] {
		rx := opts.rotationX
		conf.RotationX = &rx
	}
	if set["uvlayer"] {
		conf.UVLayer = opts.uvLayer
	}
	if set["uvlayout"] {
		if conf.UVLayout == nil {
			conf.UVLayout = &converter.UVLayoutConfig{Size: opts.uvLayoutSize}
		}
		conf.UVLayout.Path = opts.uvLayoutPath
	}
	if set["uvsize"] && conf.UVLayout != nil {
		conf.UVLayout.Size = opts.uvLayoutSize
	}
}

func exportScene(input string, opts *options, set map[string]bool) error {
	conf := converter.NewExportConfig(input)
	confFile := opts.configFile
	if confFile == "" {
		confFile = configFile(input)
	}
	if confFile != "" {
		log.Print("config: ", confFile)
		if err := converter.LoadExportConfig(confFile, conf); err != nil {
			return err
		}
	}
	applyFlags(conf, opts, set)

	doc, err := loadScene(input)
	if err != nil {
		return err
	}
	_, err = converter.Export(doc, conf)
	var notFound *scene.ObjectNotFoundError
	if errors.As(err, &notFound) {
		log.Print("objects: ", doc.MeshNames())
	}
	return err
}

func inspectMSH(input, output string, opts *options) error {
	m, err := msh.Load(input)
	if err != nil {
		return err
	}
	if opts.info || output == "" {
		printInfo(os.Stdout, input, m)
	}
	if output == "" {
		return nil
	}
	name := opts.objectName
	if name == "" {
		name = filepath.Base(input[0 : len(input)-len(filepath.Ext(input))])
	}
	log.Print("out: ", output)
	return saveMSHAs(m, name, output, float32(opts.scale))
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] scene.(mqo|mqoz|gltf|glb|fbx|pmx|pmd|vrm)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [flags] model.msh [output.(mqo|glb)]\n", os.Args[0])
		flag.PrintDefaults()
	}
	opts := &options{}
	flag.StringVar(&opts.output, "o", "", "output file (default: <input>.msh)")
	flag.StringVar(&opts.objectName, "object", "", "object name (default: input file name)")
	flag.Float64Var(&opts.scale, "scale", converter.DefaultScale, "uniform scale")
	flag.Float64Var(&opts.rotationX, "rotx", converter.DefaultRotationX, "rotation around X (degrees)")
	flag.StringVar(&opts.uvLayer, "uvlayer", "", "UV layer name (default: active layer)")
	flag.StringVar(&opts.uvLayoutPath, "uvlayout", "", "write UV layout image (.png, .tga, .webp)")
	flag.IntVar(&opts.uvLayoutSize, "uvsize", uvlayout.DefaultSize, "UV layout image size")
	flag.StringVar(&opts.configFile, "config", "", "config file (default: <input>"+configSuffix+")")
	flag.BoolVar(&opts.info, "info", false, "print .msh summary")
	flag.Parse()

	idx, err := findInput(flag.Args())
	if err != nil {
		flag.Usage()
		log.Fatal(err)
	}
	input := flag.Arg(idx)

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if isMSHFile(input) {
		output := opts.output
		if output == "" && idx+1 < flag.NArg() {
			output = flag.Arg(idx + 1)
		}
		if err := inspectMSH(input, output, opts); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := exportScene(input, opts, set); err != nil {
		log.Fatal(err)
	}
}
