// Package config loads dropzone.json, the server configuration file.
//
// A minimal file:
//
//	{
//	  "port": 3000,
//	  "widget": {
//	    "fileSize": 50,
//	    "label": "Items",
//	    "name": "items",
//	    "file": { "visible": true, "singleFile": false }
//	  }
//	}
//
// Setting "image" to null disables the image tab. Every omitted field
// takes the value New() gives it.
package config
