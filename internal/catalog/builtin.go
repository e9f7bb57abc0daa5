package catalog

// builtinControls is a vulnerability-relevant subset of NIST 800-53
// Rev 5, used when no catalog CSV is supplied. Order is catalog order.
var builtinControls = []Control{
	{
		ID:          "AC-3",
		Description: "Access Enforcement. Enforce approved authorizations for logical access to information and system resources in accordance with applicable access control policies.",
		Extra:       []string{"Access Control"},
	},
	{
		ID:          "AC-6",
		Description: "Least Privilege. Employ the principle of least privilege, allowing only authorized accesses for users which are necessary to accomplish assigned organizational tasks.",
		Extra:       []string{"Access Control"},
	},
	{
		ID:          "AU-6",
		Description: "Audit Record Review, Analysis, and Reporting. Review and analyze system audit records for indications of inappropriate or unusual activity and report findings.",
		Extra:       []string{"Audit and Accountability"},
	},
	{
		ID:          "CA-7",
		Description: "Continuous Monitoring. Develop a continuous monitoring strategy and implement a continuous monitoring program that includes ongoing security and privacy control assessments.",
		Extra:       []string{"Assessment, Authorization, and Monitoring"},
	},
	{
		ID:          "CM-6",
		Description: "Configuration Settings. Establish and document configuration settings for system components using security configuration checklists.",
		Extra:       []string{"Configuration Management"},
	},
	{
		ID:          "CM-8",
		Description: "System Component Inventory. Develop and document an inventory of system components that accurately reflects the system and is consistent with the authorization boundary.",
		Extra:       []string{"Configuration Management"},
	},
	{
		ID:          "CP-9",
		Description: "System Backup. Conduct backups of user-level and system-level information contained in the system on a defined frequency.",
		Extra:       []string{"Contingency Planning"},
	},
	{
		ID:          "CP-10",
		Description: "System Recovery and Reconstitution. Provide for the recovery and reconstitution of the system to a known state within organization-defined time period.",
		Extra:       []string{"Contingency Planning"},
	},
	{
		ID:          "IA-2",
		Description: "Identification and Authentication. Uniquely identify and authenticate organizational users and associate that unique identification with processes acting on behalf of those users.",
		Extra:       []string{"Identification and Authentication"},
	},
	{
		ID:          "IA-5",
		Description: "Authenticator Management. Manage system authenticators by verifying identity before initial distribution, establishing initial content, and protecting against unauthorized disclosure.",
		Extra:       []string{"Identification and Authentication"},
	},
	{
		ID:          "IR-4",
		Description: "Incident Handling. Implement an incident handling capability for incidents that includes preparation, detection, analysis, containment, eradication, and recovery.",
		Extra:       []string{"Incident Response"},
	},
	{
		ID:          "IR-6",
		Description: "Incident Reporting. Require personnel to report suspected incidents to the organizational incident response capability within organization-defined time period.",
		Extra:       []string{"Incident Response"},
	},
	{
		ID:          "RA-5",
		Description: "Vulnerability Monitoring and Scanning. Monitor and scan for vulnerabilities in the system and hosted applications using vulnerability monitoring tools.",
		Extra:       []string{"Risk Assessment"},
	},
	{
		ID:          "SC-7",
		Description: "Boundary Protection. Monitor and control communications at the external managed interfaces to the system and at key internal managed interfaces within the system.",
		Extra:       []string{"System and Communications Protection"},
	},
	{
		ID:          "SC-13",
		Description: "Cryptographic Protection. Determine the cryptographic uses and implement the types of cryptography required for each specified cryptographic use.",
		Extra:       []string{"System and Communications Protection"},
	},
	{
		ID:          "SC-28",
		Description: "Protection of Information at Rest. Protect the confidentiality and integrity of information at rest, including through cryptographic mechanisms.",
		Extra:       []string{"System and Communications Protection"},
	},
	{
		ID:          "SI-2",
		Description: "Flaw Remediation. Identify, report, and correct system flaws. Install security-relevant software updates within organization-defined time period.",
		Extra:       []string{"System and Information Integrity"},
	},
	{
		ID:          "SI-3",
		Description: "Malicious Code Protection. Implement malicious code protection mechanisms at system entry and exit points to detect and eradicate malicious code.",
		Extra:       []string{"System and Information Integrity"},
	},
	{
		ID:          "SI-4",
		Description: "System Monitoring. Monitor the system to detect attacks, indicators of potential attacks, and unauthorized local, network, and remote connections.",
		Extra:       []string{"System and Information Integrity"},
	},
	{
		ID:          "SI-10",
		Description: "Information Input Validation. Check the validity of information inputs to the system to verify inputs match specified definitions for format and content.",
		Extra:       []string{"System and Information Integrity"},
	},
}

// Builtin returns the bundled NIST 800-53 catalog subset.
func Builtin() *Catalog {
	controls := make([]Control, len(builtinControls))
	copy(controls, builtinControls)

	byID := make(map[string]int, len(controls))
	for i, c := range controls {
		byID[c.ID] = i
	}
	return &Catalog{controls: controls, byID: byID}
}
