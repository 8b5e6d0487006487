package mcp

import "encoding/json"

// ToolDefinition describes one callable tool for list_tools.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ListToolsResponse is the list_tools payload.
type ListToolsResponse struct {
	Tools []ToolDefinition `json:"tools"`
}

// CallToolRequest is the call_tool payload.
type CallToolRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ContentBlock is one entry of a tool response; only "text" blocks are used.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallToolResponse wraps a tool result.
type CallToolResponse struct {
	Content []ContentBlock `json:"content"`
}

// ToolError is the error body returned with HTTP 400.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToolErrorResponse wraps a ToolError.
type ToolErrorResponse struct {
	Error ToolError `json:"error"`
}

const (
	createEntitiesSchema = `{
		"type": "object",
		"properties": {
			"entities": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"name": { "type": "string", "description": "The name of the entity" },
						"entityType": { "type": "string", "description": "The type of the entity" },
						"observations": { "type": "array", "items": { "type": "string" }, "description": "An array of observation contents associated with the entity" }
					},
					"required": ["name", "entityType", "observations"]
				}
			}
		},
		"required": ["entities"]
	}`

	createRelationsSchema = `{
		"type": "object",
		"properties": {
			"relations": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"from": { "type": "string", "description": "The name of the entity where the relation starts" },
						"to": { "type": "string", "description": "The name of the entity where the relation ends" },
						"relationType": { "type": "string", "description": "The type of the relation" }
					},
					"required": ["from", "to", "relationType"]
				}
			}
		},
		"required": ["relations"]
	}`

	addObservationsSchema = `{
		"type": "object",
		"properties": {
			"observations": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"entityName": { "type": "string", "description": "The name of the entity to add the observations to" },
						"contents": { "type": "array", "items": { "type": "string" }, "description": "An array of observation contents to add" }
					},
					"required": ["entityName", "contents"]
				}
			}
		},
		"required": ["observations"]
	}`

	deleteEntitiesSchema = `{
		"type": "object",
		"properties": {
			"entityNames": { "type": "array", "items": { "type": "string" }, "description": "An array of entity names to delete" }
		},
		"required": ["entityNames"]
	}`

	deleteObservationsSchema = `{
		"type": "object",
		"properties": {
			"deletions": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"entityName": { "type": "string", "description": "The name of the entity containing the observations" },
						"observations": { "type": "array", "items": { "type": "string" }, "description": "An array of observations to delete" }
					},
					"required": ["entityName", "observations"]
				}
			}
		},
		"required": ["deletions"]
	}`

	deleteRelationsSchema = `{
		"type": "object",
		"properties": {
			"relations": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"from": { "type": "string", "description": "The name of the entity where the relation starts" },
						"to": { "type": "string", "description": "The name of the entity where the relation ends" },
						"relationType": { "type": "string", "description": "The type of the relation" }
					},
					"required": ["from", "to", "relationType"]
				},
				"description": "An array of relations to delete"
			}
		},
		"required": ["relations"]
	}`

	readGraphSchema = `{"type": "object", "properties": {}}`

	searchNodesSchema = `{
		"type": "object",
		"properties": {
			"query": { "type": "string", "description": "The search query to match against entity names, types, and observation content" }
		},
		"required": ["query"]
	}`

	openNodesSchema = `{
		"type": "object",
		"properties": {
			"names": { "type": "array", "items": { "type": "string" }, "description": "An array of entity names to retrieve" }
		},
		"required": ["names"]
	}`
)

// toolDefinitions lists every tool the call endpoint dispatches on.
func toolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "create_entities",
			Description: "Create multiple new entities in the knowledge graph",
			InputSchema: json.RawMessage(createEntitiesSchema),
		},
		{
			Name:        "create_relations",
			Description: "Create multiple new relations between entities in the knowledge graph. Relations should be in active voice",
			InputSchema: json.RawMessage(createRelationsSchema),
		},
		{
			Name:        "add_observations",
			Description: "Add new observations to existing entities in the knowledge graph",
			InputSchema: json.RawMessage(addObservationsSchema),
		},
		{
			Name:        "delete_entities",
			Description: "Delete multiple entities and their associated relations from the knowledge graph",
			InputSchema: json.RawMessage(deleteEntitiesSchema),
		},
		{
			Name:        "delete_observations",
			Description: "Delete specific observations from entities in the knowledge graph",
			InputSchema: json.RawMessage(deleteObservationsSchema),
		},
		{
			Name:        "delete_relations",
			Description: "Delete multiple relations from the knowledge graph",
			InputSchema: json.RawMessage(deleteRelationsSchema),
		},
		{
			Name:        "read_graph",
			Description: "Read the entire knowledge graph",
			InputSchema: json.RawMessage(readGraphSchema),
		},
		{
			Name:        "search_nodes",
			Description: "Search for nodes in the knowledge graph based on a query",
			InputSchema: json.RawMessage(searchNodesSchema),
		},
		{
			Name:        "open_nodes",
			Description: "Open specific nodes in the knowledge graph by their names",
			InputSchema: json.RawMessage(openNodesSchema),
		},
	}
}
