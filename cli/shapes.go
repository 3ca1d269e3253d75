package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ByLCY/plakat/layout"
)

func newShapesCmd(a *app) *cobra.Command {
	var catalogPath string
	cmd := &cobra.Command{
		Use:   "shapes",
		Short: "List the shape catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if catalogPath == "" {
				catalogPath = a.cfg.Catalog
			}
			shapes, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			if len(shapes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog is empty")
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), shapeTable(shapes))
			return err
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "shape catalog (.shapes) file")
	return cmd
}

// shapeTable renders name, element count and unscaled size per template.
func shapeTable(shapes []layout.ShapeTemplate) string {
	rows := make([][]string, 0, len(shapes))
	for _, tpl := range shapes {
		w, h := "-", "-"
		if box, ok := layout.ShapeBounds(&layout.ShapeInstance{Template: tpl.Name, Elements: tpl.Elements}); ok {
			w = strconv.FormatFloat(box.Width, 'f', 0, 64)
			h = strconv.FormatFloat(box.Height, 'f', 0, 64)
		}
		rows = append(rows, []string{tpl.Name, strconv.Itoa(len(tpl.Elements)), w, h})
	}
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SHAPE", "ELEMENTS", "WIDTH", "HEIGHT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		String()
}
