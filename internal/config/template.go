package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// templateEntry is one key of the generated configuration file.
type templateEntry struct {
	key     string
	value   string
	tag     string
	comment string
}

// Template returns a commented YAML configuration file with every key set
// to its default. The start URL and prefix show a typical government
// guidance site crawl.
//
// Design decision: We build a yaml.Node tree instead of marshaling Config so
// each key carries a comment and durations stay human readable ("30s").
func Template() ([]byte, error) {
	d := NewConfig()

	entries := []templateEntry{
		{"start_url", "https://www.canada.ca/en/immigration-refugees-citizenship/services/immigrate-canada.html", "!!str",
			"URL the crawl starts from. Can also be passed as an argument."},
		{"prefix", "https://www.canada.ca/en/immigration-refugees-citizenship/services/immigrate-canada", "!!str",
			"Only links starting with this prefix are followed.\nLeave empty to use the directory of start_url."},
		{"boundary_match", fmt.Sprint(d.BoundaryMatch), "!!bool",
			"Require a path boundary (/ ? # .) right after the prefix."},
		{"variant", d.Variant, "!!str",
			"Output variant: html (raw page), txt (plain text), md (Markdown)."},
		{"output_dir", d.OutputDir, "!!str",
			"Directory that receives output-html, output-txt or output-md."},
		{"timeout", d.Timeout.String(), "!!str",
			"Per-page fetch timeout."},
		{"workers", fmt.Sprint(d.Workers), "!!int",
			"Pages processed concurrently."},
		{"max_pages", fmt.Sprint(d.MaxPages), "!!int",
			"Stop after this many pages (0 = no limit)."},
		{"max_depth", fmt.Sprint(d.MaxDepth), "!!int",
			"Do not follow links deeper than this (0 = no limit)."},
		{"user_agent", d.UserAgent, "!!str",
			"User-Agent header sent with each request."},
		{"max_body_size", fmt.Sprint(d.MaxBodySize), "!!int",
			"Maximum bytes read per page."},
		{"socks_proxy", d.SOCKSProxy, "!!str",
			"SOCKS5 proxy as host:port (e.g. 127.0.0.1:9050). Empty uses HTTP_PROXY."},
		{"verbose", fmt.Sprint(d.Verbose), "!!bool",
			"Enable debug logging."},
		{"log_format", d.LogFormat, "!!str",
			"Log format: text or json."},
	}

	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.key, HeadComment: e.comment},
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.value, Tag: e.tag},
		)
	}

	headers := &yaml.Node{Kind: yaml.MappingNode}
	headers.Content = append(headers.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "Accept-Language"},
		&yaml.Node{Kind: yaml.ScalarNode, Value: "en"},
	)
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "headers", HeadComment: "Extra HTTP headers sent with each request."},
		headers,
	)

	ignore := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, p := range []string{"*.pdf", "*.zip"} {
		ignore.Content = append(ignore.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: p})
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "ignore_patterns", HeadComment: "URL path patterns that are never crawled."},
		ignore,
	)

	doc := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: "sitemirror configuration",
		Content:     []*yaml.Node{mapping},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode config template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config template: %w", err)
	}

	return buf.Bytes(), nil
}
