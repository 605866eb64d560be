// Package bookexport exports row sets of any size into downloadable
// documents.
//
// Rows come from a scanner.Source in bounded batches. Each output file (a
// book) holds at most a configured number of rows; spreadsheet books also
// start a new sheet when a sheet fills up. A single book is returned as is,
// several are packaged into one zip archive:
//
//	c, _ := bookexport.NewCompiler(
//		bookexport.WithFormat(filetype.XLSX),
//		bookexport.WithMaxRowsPerBook(500000),
//	)
//	res, err := c.Compile(ctx, src, "orders", total, cols)
//	if err != nil {
//		return err
//	}
//	defer res.Close()
//	path, err := bookexport.SaveAs(ctx, res, dir)
package bookexport
