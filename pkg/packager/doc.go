// Package packager builds the deployable configuration bundle: a zip
// archive of files selected from a configuration directory tree.
//
// Selection rule: files whose name ends with the config suffix and
// whose direct parent directory is named pipes or systems, plus an
// optional root-level node metadata file. When whitelist filtering is
// enabled, an allow-list read from a fixed location under the
// configuration root further narrows that candidate set; it never
// expands it.
package packager
