// Package pom reads the dependency and plugin declarations of a Maven
// pom.xml.
//
// The reader is read-only and does not resolve parent POMs or imported BOMs.
// Property references such as ${junit.version} are substituted from the
// project's <properties> block and the built-in project.* properties; a
// reference that cannot be resolved is left untouched.
//
//	project, err := pom.Read("pom.xml")
//	if err != nil {
//		return err
//	}
//	for _, d := range project.AllDependencies() {
//		fmt.Println(d)
//	}
package pom
