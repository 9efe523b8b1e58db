/*
Package config loads survey definitions from YAML and JSON.

# Overview

config turns authored survey files into validated formlogic.Survey
values. Triggers are decoded from loose property maps so the loader
tolerates the field aliases different authoring tools emit, and the
Properties type is available for the same style of tolerant extraction
elsewhere.

# Basic Usage

Load a survey and open a session:

	survey, err := config.FromFile("intake.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	session, err := formlogic.NewSession(survey)

A minimal YAML definition:

	name: intake
	pages:
	  - name: about
	    questions:
	      - name: age
	      - name: drink
	        visibleIf: "{age} >= 18"
	triggers:
	  - type: copyvalue
	    condition: "{sameAddress} = true"
	    fromName: homeAddress
	    toName: billingAddress

# Validation

Every loader runs Survey.Validate before returning, so a loaded survey
always has named, unique pages and questions and known trigger types.
Expression syntax is not checked here; malformed expressions surface as
session diagnostics instead.
*/
package config
