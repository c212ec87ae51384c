/*
Package escl is a set of support libraries for the eSCL scan protocol.

An eSCL device publishes an XML capability document describing its
input sources, scan window bounds, color modes, document formats and
supported resolutions.  The devcaps package parses that document into
an immutable capability model and maps requested resolutions onto
values the device actually supports; the xmltree package provides the
scoped cursor the parser walks the document with; the imgdecode
package decodes the image payloads a scan produces, line by line.

Transport is out of scope: callers fetch the capability document and
the scan payloads themselves and hand the bytes to these libraries.
*/
package escl
