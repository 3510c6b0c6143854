package client

import "github.com/goccy/go-json"

// Response shapes for the cluster REST API. Decoding is tolerant: unknown
// fields are ignored so newer cluster versions do not break the shell.

// ClusterInfo is the response of GET /.
type ClusterInfo struct {
	ClusterName string  `json:"cluster_name"`
	Version     Version `json:"version"`
}

// Version carries the cluster version number.
type Version struct {
	Number string `json:"number"`
}

// ClusterHealth is the response of GET /_cluster/health.
type ClusterHealth struct {
	ClusterName       string `json:"cluster_name"`
	Status            string `json:"status"`
	NumberOfNodes     int    `json:"number_of_nodes"`
	NumberOfDataNodes int    `json:"number_of_data_nodes"`
}

// IndexMappings is one value of the GET /_mappings response map. Mapping
// documents are kept raw; the shell only counts them.
type IndexMappings struct {
	Mappings map[string]json.RawMessage `json:"mappings"`
}

// IndexSettings are the settings sent when creating an index.
type IndexSettings struct {
	NumberOfShards   int `json:"number_of_shards"`
	NumberOfReplicas int `json:"number_of_replicas"`
}

// createIndexBody is the PUT /{index} request body.
type createIndexBody struct {
	Settings IndexSettings `json:"settings"`
}

// acknowledgement is the response body of index mutations.
type acknowledgement struct {
	Acknowledged bool `json:"acknowledged"`
}

// IndexDocs counts documents in an index.
type IndexDocs struct {
	Count   int `json:"count"`
	Deleted int `json:"deleted"`
}

// IndexStats groups statistics for one shard group.
type IndexStats struct {
	Docs IndexDocs `json:"docs"`
}

// IndexStatsContainer is the per-index entry of GET /{index}/_stats.
type IndexStatsContainer struct {
	Primaries IndexStats `json:"primaries"`
	Total     IndexStats `json:"total"`
}

// indexStatsResult is the full GET /{index}/_stats response.
type indexStatsResult struct {
	Indices map[string]IndexStatsContainer `json:"indices"`
}

// NodesInfo is the response of GET /_nodes/stats.
type NodesInfo struct {
	ClusterName string          `json:"cluster_name"`
	Nodes       map[string]Node `json:"nodes"`
}

// Node is one entry of NodesInfo.Nodes, keyed by internal node ID; the
// human-facing name lives in the Name field.
type Node struct {
	Name string `json:"name"`
	OS   NodeOS `json:"os"`
}

// NodeOS carries operating system level statistics of a node.
type NodeOS struct {
	CPU    NodeCPU    `json:"cpu"`
	Memory NodeMemory `json:"mem"`
}

// NodeCPU carries CPU usage of a node.
type NodeCPU struct {
	Percent int `json:"percent"`
}

// NodeMemory carries memory usage of a node.
type NodeMemory struct {
	FreePercent  int    `json:"free_percent"`
	UsedPercent  int    `json:"used_percent"`
	TotalInBytes uint64 `json:"total_in_bytes"`
	FreeInBytes  uint64 `json:"free_in_bytes"`
	UsedInBytes  uint64 `json:"used_in_bytes"`
}
