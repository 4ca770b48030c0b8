// Package maven reads artifact version metadata from Maven repositories.
//
// # Overview
//
// Every artifact directory in a Maven repository carries a metadata document
// listing the published versions:
//
//	<repo>/org/slf4j/slf4j-api/maven-metadata.xml
//
// Local repositories (e.g. ~/.m2/repository) hold maven-metadata-local.xml for
// installed artifacts and maven-metadata-<id>.xml copies of remote metadata.
//
// # Usage
//
//	client := maven.NewClient(c, 6*time.Hour)
//	versions, err := client.Versions(ctx,
//	    []maven.Repository{maven.Local(home + "/.m2/repository"), maven.Central()},
//	    "org.slf4j", "slf4j-api", false)
//
// # Semantics
//
// Repositories are consulted in order and versions are merged in first-seen
// order. A 404 or a missing directory means the repository does not know the
// artifact; it contributes nothing. Transport failures and malformed
// documents fail the lookup.
//
// # Caching
//
// Remote metadata is cached per repository and artifact with the TTL given
// to [NewClient]. Local repositories are always read from disk.
package maven
