/*
Package extensions manages installed extension bundles.

Extensions live as plain folders under the application data directory:

	<local-data>/AIOP/Extensions/<name>/
	    extension.json   manifest (or .yaml/.yml/.toml, or any *.json)
	    index.html       entry page loaded by the shell
	    ...

Installation copies a bundle folder with the filesystem Operator, or
extracts an archive (.zip, .tar, .tar.gz, .tgz, .tar.zst) first, which may
itself be downloaded over http(s). All are best effort: entries that cannot
be copied are reported, not fatal. Files the entry page references but the
bundle lacks are listed in Bundle.MissingAssets.

Formats:
  - sonic: JSON manifests
  - goccy/go-yaml: YAML manifests
  - go-toml: TOML manifests
  - klauspost/compress: zip, gzip and zstd archives
  - htmlquery: XPath over the entry page for asset references
  - resty over go-retryablehttp: archive downloads with retries
*/
package extensions
