package bookmarks

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/cur8t/agents/internal/entities"
	"github.com/cur8t/agents/internal/utils"
)

// Browser labels recognized by the parser. An empty label means the format
// could not be identified.
const (
	BrowserChrome  = "chrome"
	BrowserFirefox = "firefox"
	BrowserSafari  = "safari"
	BrowserEdge    = "edge"
	BrowserGeneric = "generic"
)

// GenericFolder is the synthetic folder used when the export format is
// unknown and links are flattened.
const GenericFolder = "Unknown"

var (
	chromeGeneratorRe = regexp.MustCompile(`(?i)Bookmarks.*Chrome`)
	firefoxHeadingRe  = regexp.MustCompile(`(?i)Bookmarks.*Firefox`)
	safariTitleRe     = regexp.MustCompile(`(?i)Safari.*Bookmarks`)
)

// ParseExport parses a browser bookmark export into a flat item list with
// folder provenance. It never fails on malformed content: unusable documents
// simply yield an empty item list, which the orchestrator turns into a
// user-facing error.
func ParseExport(content string, browserHint string) ([]entities.BookmarkItem, string, entities.FolderStructure) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		// html.Parse only fails on reader errors, not bad markup.
		return nil, "", entities.FolderStructure{}
	}

	browser := detectBrowser(doc, browserHint)

	var items []entities.BookmarkItem
	var folders entities.FolderStructure

	switch browser {
	case BrowserChrome, BrowserFirefox, BrowserSafari:
		// The three formats share the Netscape DL/DT/H3 structure and differ
		// only in fingerprints, so one walker handles them all.
		items, folders = parseNetscape(doc)
	default:
		items, folders = parseGeneric(doc)
	}

	return items, browser, folders
}

// detectBrowser identifies the exporting browser. A recognized hint is
// trusted outright; otherwise structural fingerprints are tried in a fixed
// priority order.
func detectBrowser(doc *html.Node, hint string) string {
	switch strings.ToLower(hint) {
	case BrowserChrome, BrowserFirefox, BrowserSafari, BrowserEdge:
		return strings.ToLower(hint)
	}

	switch {
	case findNode(doc, func(n *html.Node) bool {
		return isElement(n, "meta") &&
			strings.EqualFold(nodeAttr(n, "name"), "GENERATOR") &&
			chromeGeneratorRe.MatchString(nodeAttr(n, "content"))
	}) != nil:
		return BrowserChrome
	case findNode(doc, func(n *html.Node) bool {
		return isElement(n, "h1") && firefoxHeadingRe.MatchString(textContent(n))
	}) != nil:
		return BrowserFirefox
	case findNode(doc, func(n *html.Node) bool {
		return isElement(n, "title") && safariTitleRe.MatchString(textContent(n))
	}) != nil:
		return BrowserSafari
	case findNode(doc, func(n *html.Node) bool { return isElement(n, "dt") }) != nil &&
		findNode(doc, func(n *html.Node) bool { return isElement(n, "a") && nodeAttr(n, "href") != "" }) != nil:
		return BrowserGeneric
	}

	return ""
}

// parseNetscape walks the nested DL/DT list structure of Netscape-style
// exports. Each H3 opens a folder scope on the next DL; links carry the
// enclosing folder path, slash-joined for nesting.
func parseNetscape(doc *html.Node) ([]entities.BookmarkItem, entities.FolderStructure) {
	items := []entities.BookmarkItem{}
	folders := entities.FolderStructure{}

	var pathStack []string
	var pendingFolder string
	var hasPending bool

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				name := textContent(n)
				if name != "" {
					path := name
					if len(pathStack) > 0 {
						path = pathStack[len(pathStack)-1] + "/" + name
					}
					if _, seen := folders[path]; !seen {
						folders[path] = 0
					}
					// The folder scope opens when the following DL arrives.
					pendingFolder = path
					hasPending = true
				}
				return

			case "a":
				href := nodeAttr(n, "href")
				if href == "" || !utils.IsValidURL(href) {
					return
				}
				folderPath := ""
				if len(pathStack) > 0 {
					folderPath = pathStack[len(pathStack)-1]
				}
				item := entities.BookmarkItem{
					URL:        href,
					Title:      textContent(n),
					FolderPath: folderPath,
					DateAdded:  parseAddDate(nodeAttr(n, "add_date")),
					FaviconURL: nodeAttr(n, "icon"),
					Tags:       splitTags(nodeAttr(n, "tags")),
				}
				items = append(items, item)
				if folderPath != "" {
					folders[folderPath]++
				}
				return

			case "dl":
				pushed := false
				if hasPending {
					pathStack = append(pathStack, pendingFolder)
					hasPending = false
					pushed = true
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				if pushed {
					pathStack = pathStack[:len(pathStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return items, folders
}

// parseGeneric flattens every valid link in the document into the synthetic
// "Unknown" folder. Links without usable title text are skipped.
func parseGeneric(doc *html.Node) ([]entities.BookmarkItem, entities.FolderStructure) {
	items := []entities.BookmarkItem{}
	folders := entities.FolderStructure{GenericFolder: 0}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if isElement(n, "a") {
			href := nodeAttr(n, "href")
			title := textContent(n)
			if href != "" && utils.IsValidURL(href) && title != "" {
				items = append(items, entities.BookmarkItem{
					URL:        href,
					Title:      title,
					FolderPath: GenericFolder,
				})
				folders[GenericFolder]++
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return items, folders
}

// parseAddDate interprets the Netscape ADD_DATE attribute (Unix epoch
// seconds). Absent or unparsable values yield nil, never an error.
func parseAddDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	epoch, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(epoch, 0)
	return &t
}

// splitTags parses the comma-separated TAGS attribute some exporters emit.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// --- html.Node helpers ---

func isElement(n *html.Node, name string) bool {
	return n.Type == html.ElementNode && strings.EqualFold(n.Data, name)
}

func nodeAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(sb.String())
}

func findNode(root *html.Node, match func(*html.Node) bool) *html.Node {
	if match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}
