package inspect

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

const timeLayout = "2006-01-02 15:04:05"

// Print 按原始工具的格式输出报告
func Print(w io.Writer, r *Report) {
	fmt.Fprintf(w, "Name: %s\n", r.Name)
	fmt.Fprintf(w, "Created on: %s\n", r.CreatedAt.Format(timeLayout))
	fmt.Fprintf(w, "Updated on: %s (%s)\n", r.UpdatedAt.Format(timeLayout), humanize.Time(r.UpdatedAt))
	fmt.Fprintf(w, "Size: %s\n", humanize.IBytes(uint64(r.Size)))

	if t := r.Text; t != nil {
		fmt.Fprintf(w, "Lines: %d\n", t.Lines)
		fmt.Fprintf(w, "Words: %d\n", t.Words)
		fmt.Fprintf(w, "Characters: %d\n", t.Chars)
	}
	if img := r.Image; img != nil {
		fmt.Fprintf(w, "Image size: %dx%d\n", img.Width, img.Height)
	}
	if s := r.Source; s != nil {
		if s.Language != "" {
			fmt.Fprintf(w, "Language: %s\n", s.Language)
		}
		fmt.Fprintf(w, "Lines: %d\n", s.Lines)
		fmt.Fprintf(w, "Classes in code: %d\n", s.Classes)
	}
}
