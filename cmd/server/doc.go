// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

/*
Package main is the entry point for the Flavorrank server.

Flavorrank recommends beverages two ways: by similarity to a catalog item
(nearest neighbors over brand and flavour-tag features, re-ranked by
popularity, flavour profile and quality) and by free-text semantic search
over item descriptions.

# Application Architecture

	RootSupervisor ("flavorrank")
	├── IndexSupervisor ("index-layer")
	│   └── WarmupService (catalog + semantic index, when index.warm_on_start)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The catalog and index are initialized lazily and at most once; the warmup
service only moves that cost to startup.

# Flags

	-config PATH     YAML config file (overrides $CONFIG_PATH and ./config.yaml)
	-build-index     load the catalog, build or validate the semantic index
	                 in the blob cache, then exit
	-version         print the version and exit

# Configuration

Configuration is layered with koanf: built-in defaults, then the YAML file,
then environment variables. Common overrides:

	CATALOG_SOURCE=duckdb|postgres|csv
	CATALOG_DUCKDB_PATH=data/catalog.duckdb
	EMBEDDING_PROVIDER=onnx|http|hash
	INDEX_BACKEND=badger|redis|memory
	LOG_LEVEL=debug

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests within server.shutdown_timeout and the blob store and encoder are
closed before exit.

# Example

	./flavorrank -build-index
	./flavorrank -config /etc/flavorrank/config.yaml
	curl localhost:8000/recommend/1
	curl -XPOST localhost:8000/recommend-by-text -d '{"query":"fruity and dry","top_k":5}'
*/
package main
