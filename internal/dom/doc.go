// Package dom is the HTML capability layer used by the crawler.
//
// The rest of sitemirror never touches a concrete HTML library. It asks a
// Document for the page title, the text or markup of a selection, or the
// values of an attribute, and this package answers those questions with
// goquery (CSS selectors via cascadia) on top of golang.org/x/net/html.
package dom
