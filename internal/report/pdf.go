package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromePrinter prints HTML to PDF with headless Chrome.
type ChromePrinter struct {
	Timeout time.Duration
	// Settle is how long charts get to draw after the page is ready.
	Settle      time.Duration
	PaperWidth  float64
	PaperHeight float64
}

// NewChromePrinter returns a printer for landscape letter pages.
func NewChromePrinter(timeout time.Duration) *ChromePrinter {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChromePrinter{
		Timeout:     timeout,
		Settle:      1500 * time.Millisecond,
		PaperWidth:  11,
		PaperHeight: 8.5,
	}
}

func (p *ChromePrinter) PrintPDF(ctx context.Context, html []byte) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	parent, cancel := chromedp.NewContext(ctx)
	defer cancel()

	timeoutCtx, cancelTimeout := context.WithTimeout(parent, p.Timeout)
	defer cancelTimeout()

	dataURI := "data:text/html;base64," + base64.StdEncoding.EncodeToString(html)
	var pdf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate(dataURI),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(p.Settle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithLandscape(false).
				WithPrintBackground(true).
				WithPaperWidth(p.PaperWidth).
				WithPaperHeight(p.PaperHeight).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	}
	if err := chromedp.Run(timeoutCtx, tasks...); err != nil {
		return nil, fmt.Errorf("chrome print: %w", err)
	}
	return pdf, nil
}
