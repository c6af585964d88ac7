// Package script runs batch command scripts against a task registry.
//
// A script is a JSON document:
//
//	{
//	  "version": 1,
//	  "commands": [
//	    {"op": "add", "description": "write report", "priority": 4},
//	    {"op": "complete", "id": 1},
//	    {"op": "edit", "id": 1, "description": "write final report"},
//	    {"op": "list", "filter": "completed"},
//	    {"op": "remove", "id": 1}
//	  ]
//	}
//
// The document is checked against an embedded JSON Schema before any command
// runs. The schema checks shape only; priority range and id existence are
// left to the registry so its errors show up in the results.
package script
