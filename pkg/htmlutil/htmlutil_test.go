package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestCleanText(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "  hello  ", expected: "hello"},
		{input: "a \n\t b", expected: "a b"},
		{input: "x\u0000y", expected: "xy"},
		{input: "单 词", expected: "单 词"},
	}
	for _, row := range table {
		require.Equal(t, row.expected, CleanText(row.input))
	}
}

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div>
			<a class="ulink" href="/html/gndy/dyzz/1.html">  Movie
				One </a>
			<a class="ulink" href="https://other.example/2.html"><b>Movie</b> Two</a>
			<a class="ulink">no href</a>
			<a class="other" href="/skip.html">skip</a>
		</div>
	`))
	require.NoError(t, err)

	base, err := url.Parse("http://www.dytt8.net/html/gndy/dyzz/list_23_1.html")
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), base, doc.Find("a.ulink"))
	require.Equal(t, []Anchor{
		{Name: "Movie One", Href: "http://www.dytt8.net/html/gndy/dyzz/1.html"},
		{Name: "Movie Two", Href: "https://other.example/2.html"},
	}, anchors)
}

func TestDecodeGBK(t *testing.T) {
	page := `<html><head><meta http-equiv="Content-Type" content="text/html; charset=gb2312"></head>` +
		`<body><a class="ulink" href="/a.html">电影天堂</a></body></html>`
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(page)
	require.NoError(t, err)

	doc, err := Decode([]byte(encoded), "text/html")
	require.NoError(t, err)
	require.Equal(t, "电影天堂", doc.Find("a.ulink").Text())

	// the header wins over the <meta> tag
	doc, err = Decode([]byte(encoded), "text/html; charset=gbk")
	require.NoError(t, err)
	require.Equal(t, "电影天堂", doc.Find("a.ulink").Text())
}
