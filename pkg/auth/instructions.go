package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowCookieExtractionGuide explains how to copy IMDb session cookies from a browser
func ShowCookieExtractionGuide(w io.Writer) {
	rule := strings.Repeat("=", 72)
	lines := []string{
		rule,
		"IMDB COOKIE EXTRACTION GUIDE",
		rule,
		"",
		"Private rating lists can only be exported with a logged-in session.",
		"",
		"STEP 1: Log in at https://www.imdb.com in your browser",
		"STEP 2: Open Developer Tools (F12, or Cmd+Option+I on Mac)",
		"STEP 3: Open the Network tab and reload the page",
		"STEP 4: Click any request to www.imdb.com and find the 'Cookie:' request header",
		"STEP 5: Copy the whole header value, e.g.",
		"        id=BCYmV...; uu=BCYpZ...; sid=BCYuT...; session-id=131-...",
		"",
		"Paste it at the prompt, or save it as a single line in a file for --cookies.",
		"",
		"These cookies give full access to your IMDb account. Never share them.",
		rule,
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

// ShowQuickExtractGuide prints a one-line reminder
func ShowQuickExtractGuide(w io.Writer) {
	fmt.Fprintln(w, "Cookie: F12 → Network → reload → any www.imdb.com request → Headers → Cookie (type 'help' for details)")
}
