package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
	"www.velocidex.com/golang/go-srum/parser"
	"www.velocidex.com/golang/go-srum/reporting"
)

var (
	analyze_cmd = app.Command(
		"analyze", "Analyze a SRUM database against a field template.")

	analyze_database = analyze_cmd.Arg(
		"srudb", "Path to the SRUDB.dat database.").
		Required().String()

	analyze_template = analyze_cmd.Arg(
		"template", "Path to the xlsx field template.").
		Required().String()

	analyze_registry = analyze_cmd.Flag(
		"registry", "Optional SOFTWARE hive for SID and "+
			"WLAN interface enrichment.").String()

	analyze_output = analyze_cmd.Flag(
		"output", "Directory for CSV export.").
		Default(".").String()

	analyze_format = analyze_cmd.Flag(
		"format", "Output format.").
		Default("csv").Enum("csv", "json", "text")
)

func doAnalyze() {
	analyzer := &parser.Analyzer{
		DatabasePath: *analyze_database,
		TemplatePath: *analyze_template,
		RegistryPath: *analyze_registry,
	}

	ctx := InstallSignalHandler()

	logrus.Debugf("Analyzing %v against %v",
		*analyze_database, *analyze_template)

	result, err := analyzer.Analyze(ctx)
	kingpin.FatalIfError(err, "Analyzing %s", *analyze_database)

	switch *analyze_format {
	case "csv":
		written, err := reporting.WriteCSVFiles(
			result.Tables, *analyze_output)
		kingpin.FatalIfError(err, "Exporting CSV files")

		for _, filename := range written {
			logrus.Debugf("Wrote %v", filename)
		}

	case "json":
		serialized, err := json.MarshalIndent(result.Tables, "", " ")
		kingpin.FatalIfError(err, "Serializing result")
		os.Stdout.Write(serialized)
		os.Stdout.Write([]byte("\n"))

	case "text":
		for _, name := range result.Tables.Keys() {
			value, _ := result.Tables.Get(name)
			rows, ok := value.([][]string)
			if !ok {
				continue
			}
			fmt.Printf("%v: %v rows\n", name, len(rows)-1)
		}
	}

	logrus.Info(result.Message)
}

func init() {
	command_handlers = append(command_handlers,
		func(command string) bool {
			if command == analyze_cmd.FullCommand() {
				doAnalyze()
				return true
			}
			return false
		})
}
