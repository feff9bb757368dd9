// Package io reads and writes dependent reports as JSON files.
//
// # Format
//
// A report file mirrors [dependents.Report]:
//
//	{
//	  "format": 1,
//	  "package": {"name": "left-pad", "version": "1.3.0", "unpackedSize": 1200},
//	  "requested": "^1.0.0",
//	  "dev": false,
//	  "accumulated": false,
//	  "dependents": [
//	    {
//	      "name": "a",
//	      "version": "^1.0.0",
//	      "downloads": 10,
//	      "traffic": 12000,
//	      "dev": false,
//	      "children": [...]
//	    }
//	  ]
//	}
//
// Files written by the CLI's --file flag are re-rendered by the format
// command without touching the network.
//
// # Usage
//
//	if err := io.ExportJSON(report, "left-pad.json"); err != nil {
//	    return err
//	}
//	report, err := io.ImportJSON("left-pad.json")
//
// [dependents.Report]: github.com/matzehuels/dependents/pkg/dependents.Report
package io
