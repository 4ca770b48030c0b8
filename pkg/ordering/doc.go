// Package ordering provides the comparison methods used to order version
// strings.
//
// Four methods are registered:
//
//   - maven: Maven ComparableVersion ordering (the default)
//   - numeric: plain dot-separated numeric segments
//   - mercury: an alias of maven kept for rule sets written for older tools
//   - semver: Semantic Versioning 2.0, falling back to maven
//
// [Lookup] resolves a method name case-insensitively; unknown names resolve
// to maven.
package ordering
