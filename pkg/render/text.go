package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/bindinfo/pkg/apimodel"
)

const none = "-"

// TextOptions controls the table renderer.
type TextOptions struct {
	// Color highlights important enumerations with ANSI colors.
	Color bool
	// ImportantOnly limits the enum table to important enumerations.
	ImportantOnly bool
}

// Text writes every section of model as tables.
func Text(w io.Writer, model *apimodel.Model, opts TextOptions) error {
	sections := []string{
		functionsTable(model),
		typedefsTable(model),
		enumsTable(model, opts),
		importantList(model, opts),
	}

	_, err := io.WriteString(w, strings.Join(sections, "\n\n")+"\n")
	if err != nil {
		return fmt.Errorf("write text: %w", err)
	}

	return nil
}

// Functions writes the function table only.
func Functions(w io.Writer, model *apimodel.Model) error {
	_, err := io.WriteString(w, functionsTable(model)+"\n")
	if err != nil {
		return fmt.Errorf("write functions: %w", err)
	}

	return nil
}

// Enums writes the grouped enumeration table only.
func Enums(w io.Writer, model *apimodel.Model, opts TextOptions) error {
	_, err := io.WriteString(w, enumsTable(model, opts)+"\n")
	if err != nil {
		return fmt.Errorf("write enums: %w", err)
	}

	return nil
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Format.Footer = text.FormatDefault

	return tbl
}

func functionsTable(model *apimodel.Model) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Function", "Returns", "Inputs", "Outputs"})

	for name, fn := range model.Functions.All() {
		tbl.AppendRow(table.Row{name, fn.ReturnType.String(), joinParams(fn.InputArgs()), joinParams(fn.OutputArgs())})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d", model.Functions.Len())})

	return "Functions:\n" + tbl.Render()
}

func typedefsTable(model *apimodel.Model) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Typedef", "Type"})

	for name, info := range model.Typedefs.All() {
		tbl.AppendRow(table.Row{name, info.String()})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d", model.Typedefs.Len())})

	return "Typedefs:\n" + tbl.Render()
}

func enumsTable(model *apimodel.Model, opts TextOptions) string {
	highlight := highlighter(opts)

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Enum", "Constant", "Value"})

	count := 0

	for enumName, constants := range model.ConstantsByEnum.All() {
		important := model.IsImportant(enumName)
		if opts.ImportantOnly && !important {
			continue
		}

		label := enumName
		if important {
			label = highlight.Sprint(enumName)
		}

		count++

		if constants.Len() == 0 {
			tbl.AppendRow(table.Row{label, none, none})

			continue
		}

		for constName, value := range constants.All() {
			tbl.AppendRow(table.Row{label, constName, value})
			label = ""
		}
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d", count)})

	return "Enums:\n" + tbl.Render()
}

func importantList(model *apimodel.Model, opts TextOptions) string {
	if len(model.ImportantEnums) == 0 {
		return "Important enums: " + none
	}

	highlight := highlighter(opts)

	names := make([]string, 0, len(model.ImportantEnums))
	for _, name := range model.ImportantEnums {
		names = append(names, highlight.Sprint(name))
	}

	return "Important enums: " + strings.Join(names, ", ")
}

func highlighter(opts TextOptions) *color.Color {
	c := color.New(color.FgYellow, color.Bold)
	if opts.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	return c
}

func joinParams(params []apimodel.ParameterInfo) string {
	if len(params) == 0 {
		return none
	}

	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Type.String()+" "+p.Name)
	}

	return strings.Join(parts, ", ")
}
