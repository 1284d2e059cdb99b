package parser

import "github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"

// ClassifyColumns partitions the dataset's columns into categorical and
// numeric names, preserving column order within each. Text columns are
// categorical; every other storage kind is numeric.
func ClassifyColumns(ds *models.Dataset) (categorical, numeric []string) {
	categorical, numeric = []string{}, []string{}
	if ds == nil {
		return
	}
	for _, col := range ds.Columns {
		switch col.Kind {
		case models.KindString, models.KindCategory:
			categorical = append(categorical, col.Name)
		default:
			numeric = append(numeric, col.Name)
		}
	}
	return
}
