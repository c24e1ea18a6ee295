// Package assets provides the document theme and the page header/footer
// templates used when rendering PDFs.
//
// Assets are looked up by Kind and name in one or more Sources:
//
//	{dir}/
//	├── styles/
//	│   └── theme.css
//	└── templates/
//	    ├── header.html
//	    └── footer.html
//
// The built-in copies are embedded in the binary. LoadBundle layers an
// optional override directory on top, so a deployment can rebrand any
// single file without rebuilding. Override reads go through os.Root and
// cannot leave the directory, symlinks included.
package assets
