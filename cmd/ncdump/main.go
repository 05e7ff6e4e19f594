// Command ncdump prints the contents of a netCDF dataset in a CDL-like
// text form, the way the C tool of the same name does.
//
// The pure Go engine keeps datasets in memory, so reading files from disk
// goes through a WebAssembly build of the netCDF C library:
//
//	ncdump --lib libnetcdf.wasm data.nc
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netcdf-go/netcdf"
	"github.com/netcdf-go/netcdf/ncwasm"
)

const version = "0.1.0"

var (
	wasmPath   string
	headerOnly bool
)

var rootCmd = &cobra.Command{
	Use:   "ncdump [flags] FILE",
	Short: "Print a netCDF dataset as CDL text",
	Long: `ncdump prints the dimensions, variables and attributes of a netCDF
dataset, followed by the data itself, in CDL notation. A WebAssembly build
of the netCDF C library does the file access; point --lib at it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return dump(cmd, args[0])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ncdump version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ncdump v%s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Flags().StringVar(&wasmPath, "lib", "", "wasm build of the netCDF library")
	rootCmd.Flags().BoolVar(&headerOnly, "header", false, "print metadata only, no data section")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dump(cmd *cobra.Command, path string) error {
	if wasmPath == "" {
		return fmt.Errorf("no engine for file access: pass --lib with a netCDF library module")
	}
	code, err := os.ReadFile(wasmPath)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	// Mount the file's directory as the module's root and open the file
	// by its base name inside it.
	lib, err := ncwasm.New(context.Background(), code, ncwasm.WithDir(filepath.Dir(abs)))
	if err != nil {
		return err
	}
	defer lib.Shutdown()

	f, err := netcdf.Open(filepath.Base(abs), netcdf.WithLibrary(lib))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer f.Close()

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "netcdf %s {\n", title)
	if err := dumpGroup(out, f.Group, ""); err != nil {
		return err
	}
	fmt.Fprintln(out, "}")
	return nil
}

func dumpGroup(out io.Writer, g *netcdf.Group, indent string) error {
	var dimLines []string
	for d, err := range g.Dimensions() {
		if err != nil {
			return err
		}
		name, err := d.Name()
		if err != nil {
			return err
		}
		n, err := d.Len()
		if err != nil {
			return err
		}
		unlimited, err := d.IsUnlimited()
		if err != nil {
			return err
		}
		if unlimited {
			dimLines = append(dimLines, fmt.Sprintf("\t%s%s = UNLIMITED ; // (%d currently)", indent, name, n))
		} else {
			dimLines = append(dimLines, fmt.Sprintf("\t%s%s = %d ;", indent, name, n))
		}
	}
	if len(dimLines) > 0 {
		fmt.Fprintf(out, "%sdimensions:\n", indent)
		for _, line := range dimLines {
			fmt.Fprintln(out, line)
		}
	}

	type varEntry struct {
		v    *netcdf.Variable
		name string
		t    netcdf.Type
	}
	var vars []varEntry
	var varLines []string
	for v, err := range g.Variables() {
		if err != nil {
			return err
		}
		name, err := v.Name()
		if err != nil {
			return err
		}
		t, err := v.Type()
		if err != nil {
			return err
		}
		dims, err := v.Dimensions()
		if err != nil {
			return err
		}
		dimNames := make([]string, len(dims))
		for i, d := range dims {
			dimNames[i], err = d.Name()
			if err != nil {
				return err
			}
		}
		decl := fmt.Sprintf("\t%s%s %s", indent, t, name)
		if len(dimNames) > 0 {
			decl += "(" + strings.Join(dimNames, ", ") + ")"
		}
		varLines = append(varLines, decl+" ;")
		for a, err := range v.Attributes() {
			if err != nil {
				return err
			}
			val, err := a.Value()
			if err != nil {
				return err
			}
			varLines = append(varLines,
				fmt.Sprintf("\t\t%s%s:%s = %s ;", indent, name, a.Name(), formatValue(val)))
		}
		vars = append(vars, varEntry{v, name, t})
	}
	if len(varLines) > 0 {
		fmt.Fprintf(out, "%svariables:\n", indent)
		for _, line := range varLines {
			fmt.Fprintln(out, line)
		}
	}

	var attLines []string
	for a, err := range g.Attributes() {
		if err != nil {
			return err
		}
		val, err := a.Value()
		if err != nil {
			return err
		}
		attLines = append(attLines, fmt.Sprintf("\t\t%s:%s = %s ;", indent, a.Name(), formatValue(val)))
	}
	if len(attLines) > 0 {
		fmt.Fprintf(out, "\n%s// global attributes:\n", indent)
		for _, line := range attLines {
			fmt.Fprintln(out, line)
		}
	}

	if !headerOnly && len(vars) > 0 {
		fmt.Fprintf(out, "%sdata:\n", indent)
		for _, e := range vars {
			values, err := e.v.Values()
			if err != nil {
				return err
			}
			// Char data reads back as bytes; CDL shows it as text.
			if chars, isChar := values.([]uint8); isChar && e.t == netcdf.Char {
				values = string(chars)
			}
			fmt.Fprintf(out, "\n %s%s = %s ;\n", indent, e.name, formatValue(values))
		}
	}

	for sub, err := range g.Groups() {
		if err != nil {
			return err
		}
		name, err := sub.Name()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%sgroup: %s {\n", indent, name)
		if err := dumpGroup(out, sub, indent+"  "); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s} // group %s\n", indent, name)
	}
	return nil
}

// formatValue renders an attribute or data value the way CDL writes
// constants: strings quoted, everything else comma separated.
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case []string:
		quoted := make([]string, len(x))
		for i, s := range x {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return strings.Join(quoted, ", ")
	case []int8:
		return joinValues(x)
	case []uint8:
		return joinValues(x)
	case []int16:
		return joinValues(x)
	case []uint16:
		return joinValues(x)
	case []int32:
		return joinValues(x)
	case []uint32:
		return joinValues(x)
	case []int64:
		return joinValues(x)
	case []uint64:
		return joinValues(x)
	case []float32:
		return joinValues(x)
	case []float64:
		return joinValues(x)
	default:
		return fmt.Sprint(x)
	}
}

func joinValues[T any](s []T) string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
