// Package registry describes the namespaces, commands and arguments a
// session can dispatch to.
//
// The engine only reads a Registry. Catalog is the in-memory
// implementation; it is filled programmatically with Register and
// RegisterCommand, or from YAML and TOML catalog files with Load:
//
//	namespaces:
//	  - name: system
//	    description: Host inspection
//	    commands:
//	      - name: disk usage
//	        description: Show the size of a directory
//	        run: du -sh {{quote .path}}
//	        arguments:
//	          - name: path
//	            type: file
//	            required: true
package registry
