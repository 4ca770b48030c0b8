// Package rules models version-policy rule sets and their wildcard patterns.
//
// # Rule sets
//
// A [RuleSet] holds an ordered list of [Rule] values, a default comparison
// method and a list of [IgnoreVersion] entries that apply to every artifact.
// Each rule pairs a groupId pattern with an artifactId pattern and may
// override the comparison method or add ignored versions of its own.
//
// Rule sets are loaded with [Load] from the Maven rules XML format:
//
//	<ruleset comparisonMethod="maven">
//	  <ignoreVersions>
//	    <ignoreVersion type="regex">.*-beta</ignoreVersion>
//	  </ignoreVersions>
//	  <rules>
//	    <rule groupId="com.example.*" artifactId="*" comparisonMethod="numeric">
//	      <ignoreVersions>
//	        <ignoreVersion>1.0</ignoreVersion>
//	      </ignoreVersions>
//	    </rule>
//	  </rules>
//	</ruleset>
//
// or from the equivalent TOML document:
//
//	comparison_method = "maven"
//
//	[[ignore_versions]]
//	type = "regex"
//	value = ".*-beta"
//
//	[[rules]]
//	group_id = "com.example.*"
//	artifact_id = "*"
//	comparison_method = "numeric"
//
// # Wildcards
//
// Patterns use '?' for one character and '*' for any run of characters.
// A [Pattern] matches in two modes: [Pattern.MatchesExact] requires the
// whole value to match, [Pattern.Matches] also accepts values the pattern is
// a prefix of. [Score] ranks patterns by generality: each '?' adds 1, each
// '*' adds 1000, so a literal pattern scores 0.
package rules
