package ui

import (
	"escola/internal/model"
	"escola/internal/table"
	"escola/internal/util"
)

const newsKey = "noticias"

// NewNewsView creates the news list, newest first.
func NewNewsView(news []model.News) *TableView {
	columns := []table.Column{
		{Key: "titulo", Label: "título", Width: 34},
		{Key: "autor", Label: "autor", Width: 26},
		{Key: "publicacao", Label: "publicação", Width: 17},
		{Key: "destaque", Label: "destaque", Width: 9},
	}

	rows := make([]*table.Row, len(news))
	for i, n := range news {
		featured := ""
		if n.Featured {
			featured = "★"
		}
		rows[i] = &table.Row{
			ID: n.ID,
			Cells: []string{
				n.Title,
				util.OrPlaceholder(n.AuthorName),
				util.FormatDateTime(n.PublishedAt),
				featured,
			},
			Keys: []string{2: util.SortableTime(n.PublishedAt)},
		}
	}

	return NewTableView(table.New(newsKey, columns, rows), "notícias", "    Nenhuma notícia publicada.\n    Pressione  a  para publicar.")
}
