// Package printing contains the document layout model used for PDF report
// exports. A Document is built from a normalized report and handed to a
// renderer; it holds display-ready text only.
package printing
