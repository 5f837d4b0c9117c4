package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/tagforge/internal/document"
)

var parseOutput string

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Dump the tag stream of markup sources",
	Long: `Parse scans each source and prints every tag occurrence with its
type, source position, and attributes. Use "-" to read from stdin.

Examples:
  tagforge parse page.html
  tagforge parse --output json page.html
  cat page.html | tagforge parse -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParseCommand,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "text", "Output format (text, json, yaml)")
}

// tagReport is the machine-readable parse result for one source.
type tagReport struct {
	File string    `json:"file" yaml:"file"`
	Tags []tagInfo `json:"tags" yaml:"tags"`
}

type tagInfo struct {
	Namespace  string     `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name       string     `json:"name" yaml:"name"`
	Type       string     `json:"type" yaml:"type"`
	Line       int        `json:"line" yaml:"line"`
	Column     int        `json:"column" yaml:"column"`
	Pos        int        `json:"pos" yaml:"pos"`
	Length     int        `json:"length" yaml:"length"`
	Attributes []attrPair `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

type attrPair struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

func runParseCommand(cmd *cobra.Command, args []string) error {
	var reports []tagReport
	for _, arg := range args {
		name, contents, err := readSource(arg)
		if err != nil {
			return err
		}

		doc, err := document.Parse(name, contents)
		if err != nil {
			return err
		}

		reports = append(reports, buildReport(doc))
	}

	switch parseOutput {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(reports)
	case "yaml":
		data, err := yaml.Marshal(reports)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	case "text":
		for _, report := range reports {
			printReport(report)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", parseOutput)
	}
}

func buildReport(doc *document.Document) tagReport {
	report := tagReport{File: doc.Name()}
	for _, tag := range doc.Tags() {
		info := tagInfo{
			Namespace: tag.Namespace(),
			Name:      tag.Name(),
			Type:      tag.Type().String(),
			Line:      tag.Line(),
			Column:    tag.Column(),
			Pos:       tag.Pos(),
			Length:    tag.Length(),
		}
		attrs := tag.Attributes()
		for _, key := range attrs.Keys() {
			value, _ := attrs.Get(key)
			info.Attributes = append(info.Attributes, attrPair{Key: key, Value: value})
		}
		report.Tags = append(report.Tags, info)
	}

	return report
}

func printReport(report tagReport) {
	for _, tag := range report.Tags {
		name := tag.Name
		if tag.Namespace != "" {
			name = tag.Namespace + ":" + name
		}

		line := fmt.Sprintf("%s:%d:%d\t%-10s\t%s", report.File, tag.Line, tag.Column, tag.Type, name)
		for _, attr := range tag.Attributes {
			line += fmt.Sprintf(" %s=%q", attr.Key, attr.Value)
		}
		fmt.Println(line)
	}
}
