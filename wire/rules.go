// wire/rules.go

// Package wire implements the XML message families exchanged with the
// data-provider service: access-rule listings, the delete/import command
// document, and the three report families.
package wire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/fundwire/logging"
	"github.com/dev-mohitbeniwal/fundwire/model"
	"github.com/dev-mohitbeniwal/fundwire/xmlutil"
)

const (
	TaskDelete = "delete"
	TaskImport = "import"

	tagAccessRules    = "AccessRules"
	tagAccessRule     = "AccessRule"
	tagTask           = "Task"
	tagDataSupplier   = "DataSupplier"
	tagShort          = "Short"
	tagName           = "Name"
	tagContact        = "Contact"
	tagPhone          = "Phone"
	tagEmail          = "Email"
	tagContentType    = "ContentType"
	tagAccessReceiver = "AccessReceiver"
	tagProfile        = "Profile"
	tagAccessObject   = "AccessObject"
	tagLEI            = "LEI"
	tagOenbID         = "OenbId"
	tagIsinSegment    = "IsinSegment"
	tagIsinShareClass = "IsinShareClass"
	tagAccessRange    = "AccessRange"
	tagAccessDelay    = "AccessDelayInDays"
	tagDateFrom       = "DateFrom"
	tagDateTo         = "DateTo"
	tagFrequency      = "Frequency"
	tagCosts          = "CostsByDataSupplier"
	tagCreationTime   = "CreationTime"
)

// Contact is the operator contact block emitted into every delete/import
// document.
type Contact struct {
	Name  string
	Phone string
	Email string
}

// ParseReceivedRules decodes a listing of rules other suppliers granted to
// this installation. Empty or malformed responses yield an empty list.
func ParseReceivedRules(raw string) []*model.AccessRule {
	return parseRules(raw, false)
}

// ParseGrantedRules decodes the rules this supplier granted to others. The
// shape is a superset of the received listing: it additionally carries the
// receiver short codes.
func ParseGrantedRules(raw string) []*model.AccessRule {
	return parseRules(raw, true)
}

func parseRules(raw string, withReceivers bool) []*model.AccessRule {
	rules := []*model.AccessRule{}

	doc, err := xmlutil.Parse(raw)
	if err != nil {
		// Expected for "no data" responses as well as credential/proxy
		// problems; the caller shows a troubleshooting hint, not a crash.
		logger.Warn("Access rule listing is empty or not XML", zap.Error(err))
		return rules
	}

	for _, el := range xmlutil.FindAll(&doc.Element, tagAccessRule) {
		rule := &model.AccessRule{
			ID:          el.SelectAttrValue("id", ""),
			ContentType: model.ParseContentType(xmlutil.TextOf(el, tagContentType)),
			Creator: model.DataSupplier{
				Short: xmlutil.NestedTextOf(el, tagDataSupplier, tagShort),
				Name:  xmlutil.NestedTextOf(el, tagDataSupplier, tagName),
			},
			DateFrom:            xmlutil.NestedTextOf(el, tagAccessRange, tagDateFrom),
			DateTo:              xmlutil.NestedTextOf(el, tagAccessRange, tagDateTo),
			Frequency:           model.Frequency(xmlutil.NestedTextOf(el, tagAccessRange, tagFrequency)),
			CostsByDataSupplier: xmlutil.TextOf(el, tagCosts),
			CreationTime:        xmlutil.TextOf(el, tagCreationTime),
		}

		if delay := xmlutil.NestedTextOf(el, tagAccessRange, tagAccessDelay); delay != "" {
			d, err := strconv.Atoi(delay)
			if err != nil {
				logger.Warn("Unparsable access delay, keeping zero",
					zap.String("ruleID", rule.ID), zap.String("value", delay))
			} else {
				rule.AccessDelayDays = d
			}
		}

		for _, p := range xmlutil.FindAll(el, tagProfile) {
			if text := strings.TrimSpace(p.Text()); text != "" {
				rule.Profiles = append(rule.Profiles, text)
			}
		}

		// Each access object carries exactly one scope payload; an object
		// with none of the four is skipped, not an error.
		for _, obj := range xmlutil.FindAll(el, tagAccessObject) {
			switch {
			case xmlutil.TextOf(obj, tagLEI) != "":
				rule.LEIs = append(rule.LEIs, xmlutil.TextOf(obj, tagLEI))
			case xmlutil.TextOf(obj, tagOenbID) != "":
				rule.OenbIDs = append(rule.OenbIDs, xmlutil.TextOf(obj, tagOenbID))
			case xmlutil.TextOf(obj, tagIsinSegment) != "":
				rule.IsinsSegment = append(rule.IsinsSegment, xmlutil.TextOf(obj, tagIsinSegment))
			case xmlutil.TextOf(obj, tagIsinShareClass) != "":
				rule.IsinsShareClass = append(rule.IsinsShareClass, xmlutil.TextOf(obj, tagIsinShareClass))
			}
		}

		if withReceivers {
			for _, recv := range xmlutil.FindAll(el, tagAccessReceiver) {
				if short := xmlutil.TextOf(recv, tagShort); short != "" {
					rule.Receivers = append(rule.Receivers, short)
				}
			}
		}

		rules = append(rules, rule)
	}

	return rules
}

// BuildDeleteDocument serializes the rule into the canonical command
// document with Task = "delete". Import documents are derived from this
// text via ConvertToImport, never built independently, so that both
// uploads are byte-structurally identical except for the Task value.
func BuildDeleteDocument(rule *model.AccessRule, supplier model.DataSupplier, contact Contact) (string, error) {
	doc, root := xmlutil.NewDocument(tagAccessRules, map[string]string{
		"xmlns:xsi":                     "http://www.w3.org/2001/XMLSchema-instance",
		"xsi:noNamespaceSchemaLocation": "AccessRules.xsd",
	})

	xmlutil.AppendText(root, tagTask, TaskDelete)

	supplierEl := root.CreateElement(tagDataSupplier)
	xmlutil.AppendText(supplierEl, tagShort, supplier.Short)
	xmlutil.AppendText(supplierEl, tagName, supplier.Name)
	contactEl := supplierEl.CreateElement(tagContact)
	xmlutil.AppendText(contactEl, tagName, contact.Name)
	xmlutil.AppendText(contactEl, tagPhone, contact.Phone)
	xmlutil.AppendText(contactEl, tagEmail, contact.Email)

	ruleEl := root.CreateElement(tagAccessRule)
	ruleEl.CreateAttr("id", rule.ID)
	xmlutil.AppendText(ruleEl, tagContentType, string(rule.ContentType))
	for _, recv := range rule.Receivers {
		recvEl := ruleEl.CreateElement(tagAccessReceiver)
		xmlutil.AppendText(recvEl, tagShort, recv)
	}
	for _, profile := range rule.Profiles {
		xmlutil.AppendText(ruleEl, tagProfile, profile)
	}

	// Scope ordering is part of the contract: LEIs, OeNB ids, segment
	// ISINs, share-class ISINs, regardless of how the editor filled them.
	appendAccessObjects(ruleEl, tagLEI, rule.LEIs)
	appendAccessObjects(ruleEl, tagOenbID, rule.OenbIDs)
	appendAccessObjects(ruleEl, tagIsinSegment, rule.IsinsSegment)
	appendAccessObjects(ruleEl, tagIsinShareClass, rule.IsinsShareClass)

	rangeEl := ruleEl.CreateElement(tagAccessRange)
	xmlutil.AppendText(rangeEl, tagAccessDelay, strconv.Itoa(rule.AccessDelayDays))
	xmlutil.AppendText(rangeEl, tagDateFrom, rule.DateFrom)
	xmlutil.AppendText(rangeEl, tagDateTo, rule.DateTo)
	xmlutil.AppendText(rangeEl, tagFrequency, string(rule.Frequency))
	xmlutil.AppendText(ruleEl, tagCosts, rule.CostsByDataSupplier)

	out, err := xmlutil.Serialize(doc)
	if err != nil {
		return "", fmt.Errorf("build delete document for rule %s: %w", rule.ID, err)
	}
	return out, nil
}

func appendAccessObjects(ruleEl *etree.Element, tag string, values []string) {
	for _, v := range values {
		obj := ruleEl.CreateElement(tagAccessObject)
		xmlutil.AppendText(obj, tag, v)
	}
}

// ConvertToImport re-opens the serialized delete document, rewrites the
// Task element to "import" and re-serializes. The text-level round trip is
// intentional: the import upload must be identical to the delete upload
// except for that one field. Converting an import document again is a
// no-op.
func ConvertToImport(deleteXML string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(deleteXML); err != nil {
		return "", fmt.Errorf("reopen delete document: %w", err)
	}
	taskEl := doc.FindElement("//" + tagTask)
	if taskEl == nil {
		return "", fmt.Errorf("delete document has no %s element", tagTask)
	}
	taskEl.SetText(TaskImport)
	out, err := xmlutil.Serialize(doc)
	if err != nil {
		return "", fmt.Errorf("serialize import document: %w", err)
	}
	return out, nil
}
