// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command pegc compiles a PEG grammar file into a standalone Go
// packrat parser, the external driver around the compiler core in
// github.com/salikh/pegc. Grounded on
// generator/cmd/generator/generator-main.go (the teacher's own
// single-command compiler CLI), replacing its bare flag package with
// cobra/pflag/viper per the ambient CLI stack.
package main

import (
	"fmt"
	"io/ioutil"
	"os"

	log "github.com/golang/glog"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/salikh/pegc/internal/analysis"
	"github.com/salikh/pegc/internal/ast"
	"github.com/salikh/pegc/internal/metaparser"
	"github.com/salikh/pegc/internal/synth"
)

var (
	output       string
	dryRun       bool
	dumpAGT      bool
	diffAgainst  string
	lruCache     bool
	lruCacheSize int
	reportFormat string
	packageName  string
	receiverName string
)

// compileReport is the structured shape of `--report=yaml`.
type compileReport struct {
	Grammar     string `yaml:"grammar"`
	StartRule   string `yaml:"start_rule"`
	RuleCount   int    `yaml:"rule_count"`
	OutputBytes int    `yaml:"output_bytes,omitempty"`
	DryRun      bool   `yaml:"dry_run"`
}

func main() {
	root := &cobra.Command{
		Use:   "pegc <grammar-file>",
		Short: "Compile a PEG grammar file into a standalone Go packrat parser.",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompile,
	}
	flags := root.Flags()
	flags.StringVarP(&output, "output", "o", "", "path to write the generated Go source (required unless -x)")
	flags.BoolVarP(&dryRun, "x", "x", false, "parse and analyze the grammar but do not generate a parser")
	flags.BoolVar(&dumpAGT, "dump-agt", false, "print the s-expression dump of the abstract grammar tree and exit")
	flags.StringVar(&diffAgainst, "diff-against", "", "path to a previously generated source; print a colored character-level diff against the newly generated source instead of writing it")
	flags.BoolVar(&lruCache, "lru-cache", false, "emit a bounded LRU packrat cache instead of the default unbounded map")
	flags.IntVar(&lruCacheSize, "lru-cache-size", 4096, "bound used when --lru-cache is set")
	flags.StringVar(&reportFormat, "report", "", "emit a structured compile report in the given format (supported: yaml)")
	flags.StringVar(&packageName, "package", "main", "package name of the generated source")
	flags.StringVar(&receiverName, "receiver-name", "p", "method receiver identifier used in the generated source")

	viper.SetConfigName(".pegc")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err == nil {
		log.Infof("using config file %s", viper.ConfigFileUsed())
	}

	if err := root.Execute(); err != nil {
		log.Exitf("%s", err)
	}
}

func runCompile(cmd *cobra.Command, args []string) error {
	grammarPath := args[0]
	if viper.IsSet("package") && !cmd.Flags().Changed("package") {
		packageName = viper.GetString("package")
	}
	if viper.IsSet("receiver-name") && !cmd.Flags().Changed("receiver-name") {
		receiverName = viper.GetString("receiver-name")
	}
	if viper.IsSet("output") && !cmd.Flags().Changed("output") {
		output = viper.GetString("output")
	}

	source, err := ioutil.ReadFile(grammarPath)
	if err != nil {
		return fmt.Errorf("reading grammar file %q: %w", grammarPath, err)
	}

	g, err := metaparser.Parse(string(source))
	if err != nil {
		return fmt.Errorf("parsing grammar %q: %w", grammarPath, err)
	}
	if err := analysis.CheckReferences(g); err != nil {
		return fmt.Errorf("checking grammar %q: %w", grammarPath, err)
	}
	if err := analysis.CheckLeftRecursion(g); err != nil {
		return fmt.Errorf("checking grammar %q: %w", grammarPath, err)
	}
	analysis.EliminateProxyRules(g)

	if dumpAGT {
		fmt.Println(ast.Dump(g))
		return nil
	}

	if dryRun {
		log.Infof("grammar %q is well-formed; start rule %q, %d rules", grammarPath, g.Start, len(g.RuleNames))
		return emitReport(grammarPath, g, 0, true)
	}

	if output == "" {
		return fmt.Errorf("--output is required unless -x is given")
	}

	generated, err := synth.Emit(g, &synth.Options{
		Package:      packageName,
		ReceiverName: receiverName,
		LRUCache:     lruCache,
		LRUCacheSize: lruCacheSize,
	})
	if err != nil {
		return fmt.Errorf("generating parser for %q: %w", grammarPath, err)
	}

	if diffAgainst != "" {
		return printDiff(diffAgainst, generated)
	}

	if err := ioutil.WriteFile(output, []byte(generated), 0644); err != nil {
		return fmt.Errorf("writing output to %q: %w", output, err)
	}
	log.Infof("wrote %d bytes to %s", len(generated), output)
	return emitReport(grammarPath, g, len(generated), false)
}

func printDiff(previousPath, generated string) error {
	previous, err := ioutil.ReadFile(previousPath)
	if err != nil {
		return fmt.Errorf("reading --diff-against file %q: %w", previousPath, err)
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(previous), generated, false)
	fmt.Println(dmp.DiffPrettyText(diffs))
	return nil
}

func emitReport(grammarPath string, g *ast.Grammar, outputBytes int, dry bool) error {
	if reportFormat == "" {
		return nil
	}
	if reportFormat != "yaml" {
		return fmt.Errorf("unsupported --report format %q (supported: yaml)", reportFormat)
	}
	r := compileReport{
		Grammar:     grammarPath,
		StartRule:   g.Start,
		RuleCount:   len(g.RuleNames),
		OutputBytes: outputBytes,
		DryRun:      dry,
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(r)
}
