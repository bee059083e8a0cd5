// Package pagepulse finds the emotionally charged passages of a web page and
// highlights them in place.
//
// Quick start:
//
//	p, err := pagepulse.New(pagepulse.WithProvider("gemini"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	res, err := p.Analyze(ctx, pageHTML)
//	fmt.Println(res.Message)  // Analysis complete! Highlighted 4 emotion sections.
//	os.WriteFile("out.html", []byte(res.HTML), 0o644)
//
// The API key is taken from WithAPIKey, then PAGEPULSE_API_KEY, then the OS
// keyring entry written by `pagepulse key set`. Extract, Highlight and Clear
// work without a key.
//
// A Pagepulse runs one analysis at a time; Analyze returns ErrBusy while
// another is in flight. Extract, Highlight and Clear are safe for
// concurrent use.
package pagepulse
