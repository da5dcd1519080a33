package infer

import "regexp"

// Rule maps a trigger pattern in a narrative to an inferred clinical
// consequence. Inferred may be empty for rules that exist only to mark
// an excluded context. Confidence is carried for audit, not used to
// gate application yet.
type Rule struct {
	ID         string
	Trigger    *regexp.Regexp
	Inferred   string
	Rationale  string
	Confidence float64
	Category   string
}

func rule(id, trigger, inferred, rationale string, confidence float64, category string) Rule {
	return Rule{
		ID:         id,
		Trigger:    regexp.MustCompile(`(?i)` + trigger),
		Inferred:   inferred,
		Rationale:  rationale,
		Confidence: confidence,
		Category:   category,
	}
}

var seizureRules = []Rule{
	rule("fencing-right-focus",
		`(right.{0,20}nose.{0,20}rubbing|nose.{0,20}rubbing.{0,20}right)`,
		"The left arm was noted to be extended in a fencing posture during the tonic phase",
		"Right temporal lobe seizures cause contralateral (left) arm extension due to crossed motor pathways",
		0.9, "seizure_semiology"),
	rule("fencing-left-focus",
		`(left.{0,20}nose.{0,20}rubbing|nose.{0,20}rubbing.{0,20}left)`,
		"The right arm was noted to be extended in a fencing posture during the tonic phase",
		"Left temporal lobe seizures cause contralateral (right) arm extension due to crossed motor pathways",
		0.9, "seizure_semiology"),
	rule("figure-of-4-asymmetry",
		`figure.{0,10}of.{0,10}4.{0,50}(right|left)`,
		"The dystonic posturing was asymmetric, more prominent on the contralateral side",
		"Figure of 4 sign indicates supplementary motor area involvement with contralateral predominance",
		0.85, "seizure_semiology"),
	rule("automatism-consciousness",
		`(automatisms|lip.{0,10}smacking|chewing.{0,10}movements|picking.{0,10}movements)`,
		"During these episodes, the patient appeared confused and was unresponsive to verbal commands",
		"Complex automatisms indicate impaired consciousness due to bilateral temporal involvement",
		0.8, "seizure_consciousness"),
	rule("ictal-speech-arrest",
		`(speech.{0,10}arrest|unable.{0,10}to.{0,10}speak)`,
		"The patient was unable to follow commands during the episode but could grunt or make sounds",
		"Ictal speech arrest involves dominant hemisphere language areas while preserving vocalization centers",
		0.85, "seizure_language"),
	rule("post-ictal-confusion",
		`(seizure|episode|convulsion).{0,50}(brief|seconds|minutes)`,
		"Following the episode, there was a brief period of confusion lasting 1-2 minutes before full recovery",
		"Post-ictal confusion is expected after complex partial seizures due to temporary hippocampal dysfunction",
		0.75, "seizure_recovery"),
	rule("interictal-exam-normal",
		`(seizure|epilep).{0,100}(management|medication|treatment)`,
		"On examination, the patient is alert and oriented with normal vital signs. Neurological examination is unremarkable with normal mental status, cranial nerves, motor strength, reflexes, and coordination",
		"Normal interictal neurological examination is typical after generalized seizures in patients without underlying structural abnormalities",
		0.9, "examination_findings"),
	rule("visual-seizure-exam",
		`(visual.{0,20}hallucination|colorful|circular.{0,20}objects)`,
		"On examination during interictal periods, the child is alert and cooperative with normal vital signs. Visual fields are intact, and neurological examination including fundoscopy is normal",
		"Benign childhood epilepsy with occipital paroxysms typically has normal interictal examination",
		0.85, "examination_findings"),
	rule("visual-aura-exclusion",
		`(visual.{0,20}hallucination|visual.{0,20}phenomena).{0,50}(no.{0,10}loss.{0,10}consciousness|alert|awake)`,
		"",
		"Visual auras without loss of consciousness do not cause post-ictal confusion",
		0.95, "seizure_exclusion"),
}

var neurologicalRules = []Rule{
	rule("horner-dim-light",
		`(ptosis|miosis|anhidrosis)`,
		"The pupillary asymmetry was more noticeable in dim lighting conditions",
		"Horner's syndrome is more apparent in low light when normal pupil dilation is impaired",
		0.8, "autonomic"),
	rule("umn-hemiparesis",
		`(right.{0,20}hemiparesis|left.{0,20}hemiparesis)`,
		"The weakness followed an upper motor neuron pattern with increased tone and hyperreflexia",
		"Central hemiparesis involves pyramidal tract damage causing spastic weakness pattern",
		0.9, "motor"),
	rule("hemianopia-anosognosia",
		`(hemianopia|visual.{0,10}field.{0,10}defect)`,
		"The patient was unaware of the visual deficit initially (anosognosia for hemianopia)",
		"Posterior cerebral artery strokes often cause hemianopia with initial lack of awareness",
		0.7, "visual"),
	rule("cerebellar-gait",
		`(ataxia|coordination.{0,10}problems|dysmetria)`,
		"Gait was wide-based with tendency to fall toward the side of the lesion",
		"Cerebellar lesions cause ipsilateral ataxia with characteristic gait abnormalities",
		0.85, "cerebellar"),
	rule("management-exam-context",
		`(management|treatment).{0,50}(approach|medication|therapy)`,
		"Physical examination reveals stable vital signs and findings consistent with the presenting condition",
		"Management decisions require complete clinical assessment including examination findings",
		0.8, "examination_context"),
	rule("localization-exam",
		`localization.{0,50}(likely|most)`,
		"Neurological examination demonstrates focal findings consistent with the suspected anatomical location",
		"Localization questions require specific examination findings that correlate with neuroanatomy",
		0.85, "localization_exam"),
}

var vascularRules = []Rule{
	rule("vascular-rapid-onset",
		`(sudden.{0,10}onset|acute.{0,10}stroke)`,
		"The symptoms reached maximum severity within minutes of onset",
		"Vascular events typically have rapid onset due to immediate loss of blood supply",
		0.9, "temporal"),
	rule("watershed-pattern",
		`(bilateral.{0,20}weakness|hypotension)`,
		"Weakness was most prominent in the shoulders and hips (man-in-the-barrel syndrome)",
		"Watershed infarcts affect border zones between vascular territories, sparing face and distal extremities",
		0.8, "vascular_pattern"),
	rule("lacunar-no-cortical-signs",
		`(pure.{0,10}motor|pure.{0,10}sensory)`,
		"No cortical signs such as aphasia, neglect, or visual field defects were present",
		"Lacunar strokes affect subcortical structures, sparing cortical functions",
		0.85, "stroke_pattern"),
}

var movementRules = []Rule{
	rule("parkinsonian-tremor",
		`(rest.{0,10}tremor|pill.{0,10}rolling)`,
		"The tremor was asymmetric, more prominent on one side, and improved with voluntary movement",
		"Parkinsonian tremor typically begins unilaterally due to asymmetric substantia nigra degeneration",
		0.9, "movement"),
	rule("essential-tremor",
		`(action.{0,10}tremor|postural.{0,10}tremor)`,
		"The tremor was bilateral but asymmetric, and notably improved with alcohol consumption",
		"Essential tremor involves cerebellar circuits and characteristically responds to alcohol",
		0.8, "movement"),
	rule("dystonia-sensory-trick",
		`(dystonia|dystonic.{0,10}posturing)`,
		"The abnormal posturing was task-specific and could be temporarily relieved by sensory tricks",
		"Dystonia involves basal ganglia circuits and shows characteristic sensory geste patterns",
		0.8, "movement"),
}

// ruleTables fixes the application order across tables.
var ruleTables = [][]Rule{seizureRules, neurologicalRules, vascularRules, movementRules}
