// foamalyze runs the compression-test analysis pipeline over a
// load-frame .dat export: stress-strain conversion, elastic-region
// alignment, standard KPIs, and optionally the hysteresis-loop modulus
// when the file carries an unloading block.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/din"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/hysteresis"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/log"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/operator"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/smooth"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/specimen"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/storage"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/pkg/config"
)

const version = "1.2-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "", "Path to YAML configuration file (defaults apply when omitted)")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	name := flag.String("name", "", "Specimen name (defaults to the data file basename)")
	length := flag.Float64("length", 0, "Specimen length in mm")
	width := flag.Float64("width", 0, "Specimen width in mm")
	thickness := flag.Float64("thickness", 0, "Specimen thickness (loading direction) in mm")
	mass := flag.Float64("mass", 0, "Specimen mass in g")
	dbPath := flag.String("db", "", "SQLite results database (overrides the config file)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("foamalyze %s\n", version)
		os.Exit(0)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if flag.NArg() != 1 {
		log.Errorf("Usage: foamalyze [flags] <data file>")
		os.Exit(1)
	}
	dataFile := flag.Arg(0)

	cfg := config.Default()
	if *cfgFile != "" {
		var err error
		cfg, err = config.Load(*cfgFile)
		if err != nil {
			log.Errorf("Failed to load configuration: %v", err)
			os.Exit(1)
		}
	}
	if *dbPath != "" {
		cfg.Storage.SQLite = *dbPath
	}

	geom := specimen.Geometry{
		Length:    *length,
		Width:     *width,
		Thickness: *thickness,
		Mass:      *mass,
	}
	specimenName := *name
	if specimenName == "" {
		specimenName = strings.TrimSuffix(filepath.Base(dataFile), filepath.Ext(dataFile))
	}

	if err := run(cfg, dataFile, specimenName, geom); err != nil {
		log.Errorf("Analysis failed: %v", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, dataFile, name string, geom specimen.Geometry) error {
	blocks, err := ReadDat(dataFile)
	if err != nil {
		return err
	}

	// two-block files carry the hysteresis run first, then the main
	// compression run
	mainBlock := blocks[len(blocks)-1]
	var loopBlock *Measurement
	if len(blocks) >= 2 {
		loopBlock = &blocks[0]
		log.Infof("Found hysteresis block with %d samples", loopBlock.Len())
	}

	force := mainBlock.Force
	if k := cfg.Smoothing.MedianKernel; k > 1 {
		force, err = smooth.MedianFilter(force, k)
		if err != nil {
			return fmt.Errorf("failed to smooth force data: %w", err)
		}
		log.Debugf("Applied median filter with kernel %d to force data", k)
	}

	entity, err := specimen.New(name, specimen.KindSpecimen, geom, force, mainBlock.Displacement, mainBlock.Time)
	if err != nil {
		return err
	}
	entity.SetAlignParams(cfg.AlignParams())

	log.Infof("Analyzing %s (%d samples)", entity, mainBlock.Len())
	reportManifest(entity)

	if err := reportDIN(cfg, entity); err != nil {
		return err
	}
	if loopBlock != nil {
		if err := reportHysteresis(cfg, entity, *loopBlock); err != nil {
			return err
		}
	}

	if cfg.Storage.SQLite != "" {
		store, err := storage.Open(cfg.Storage.SQLite)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(entity); err != nil {
			return err
		}
		log.Infof("Saved results to %s", cfg.Storage.SQLite)
	}
	return nil
}

func reportManifest(e *specimen.Entity) {
	for _, m := range specimen.Manifest() {
		v, ok := m.Value(e)
		if !ok {
			log.Infof("  %-34s not found", m.Label)
			continue
		}
		if m.Unit != "" {
			log.Infof("  %-34s %12.4f %s", m.Label, v, m.Unit)
		} else {
			log.Infof("  %-34s %12.4f", m.Label, v)
		}
	}
}

func reportDIN(cfg config.Config, e *specimen.Entity) error {
	stress, err := e.Stress()
	if err != nil {
		return err
	}
	shifted, err := e.ShiftedStrain()
	if err != nil {
		return err
	}
	a, err := din.New(stress, shifted, cfg.Plateau.LowerStrain, cfg.Plateau.UpperStrain)
	if err != nil {
		return err
	}

	log.Infof("Standard KPIs (plateau window %.2f to %.2f):",
		cfg.Plateau.LowerStrain, cfg.Plateau.UpperStrain)
	log.Infof("  %-34s %12.4f MPa", "Plateau stress Rplt", a.Rplt())
	log.Infof("  %-34s %12.4f", "Plateau end strain Aplt-E", a.ApltE())
	if reH, ok := a.ReH(); ok {
		log.Infof("  %-34s %12.4f MPa", "Upper yield strength ReH", reH)
	} else {
		log.Infof("  %-34s not found", "Upper yield strength ReH")
	}
	log.Infof("  %-34s %12.4f MJ/m^3", "Energy absorption Ev", a.Ev())
	if eff, ok := a.Eff(); ok {
		log.Infof("  %-34s %12.4f", "Energy efficiency Eff", eff)
	} else {
		log.Infof("  %-34s not found", "Energy efficiency Eff")
	}
	log.Infof("  %-34s %12.4f MPa", "Yield point Rp1", a.Rp1())
	log.Infof("  %-34s %12.4f MPa", "Gradient m", a.M())
	return nil
}

func reportHysteresis(cfg config.Config, e *specimen.Entity, loop Measurement) error {
	area, err := e.Area()
	if err != nil {
		return err
	}
	stress, err := operator.Stress(loop.Force, area, nil)
	if err != nil {
		return err
	}
	strain, err := operator.Strain(loop.Displacement, e.Geometry().Thickness, nil)
	if err != nil {
		return err
	}

	block := hysteresis.TrimLowForce(hysteresis.Block{
		Time:         loop.Time,
		Force:        loop.Force,
		Displacement: loop.Displacement,
		Stress:       stress.Value,
		Strain:       strain.Value,
	})
	if block.Len() == 0 {
		return fmt.Errorf("hysteresis block is empty after low-force trimming")
	}
	_, unloading, err := hysteresis.Split(block)
	if err != nil {
		return err
	}
	if unloading.Len() < 2 {
		return fmt.Errorf("hysteresis block has no unloading segment")
	}

	mainStress, err := e.Stress()
	if err != nil {
		return err
	}
	mainStrain, err := e.Strain()
	if err != nil {
		return err
	}
	a, err := hysteresis.Analyze(mainStrain, mainStress, unloading.Strain, unloading.Stress, unloading.Force)
	if err != nil {
		return err
	}
	log.Infof("Hysteresis analysis:")
	log.Infof("  %-34s %12.4f MPa", "Unloading modulus", a.Modulus)
	log.Infof("  %-34s %12.6f", "Strain zero shift", a.ShiftOffset)

	proof, err := hysteresis.ProofStrength(a.ShiftedMainStrain, mainStress, a.Modulus, nil,
		&hysteresis.ProofOptions{Offset: cfg.Hysteresis.ProofOffset, Align: cfg.AlignParams()})
	if err != nil {
		return err
	}
	if proof.Primary.Found {
		log.Infof("  %-34s %12.4f MPa at strain %.4f", "Compressive proof strength",
			proof.Primary.Point.Y, proof.Primary.Point.X)
	} else {
		log.Infof("  %-34s not found", "Compressive proof strength")
	}
	return nil
}
